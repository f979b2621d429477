package pollboard

import (
	"encoding/xml"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists both dashboard tabs and the table filtered by each year.
func (a *App) renderSitemap(c echo.Context, years []int) error {
	base := BuildURL(a.Config.URL)
	root := BuildURL(a.Config.URL, "/")
	urls := []sitemapURL{
		{Loc: root},
		{Loc: BuildURL(a.Config.URL, "viz")},
	}
	for _, y := range years {
		q := poll.Query{Year: strconv.Itoa(y)}
		urls = append(urls, sitemapURL{Loc: base + views.PageURL(views.PathTable, q, nil, 0)})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
