package pollboard

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/rank"
	"github.com/eringen/pollboard/views"
)

// feedLimit is the number of top-voted threads in the RSS feed.
const feedLimit = 30

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// renderRSS lists the most voted threads, highest first.
func (a *App) renderRSS(c echo.Context, snap poll.Snapshot) error {
	base := BuildURL(a.Config.URL)
	top := rank.Select(snap.Posts, feedLimit)
	items := make([]rssItem, 0, len(top))
	for _, p := range top {
		pubDate := ""
		if p.Created > 0 {
			pubDate = p.CreatedAt().UTC().Format(http.TimeFormat)
		}
		link := views.ThreadURL(a.Config.ThreadURLFormat, p.ID)
		items = append(items, rssItem{
			Title:       p.Subject,
			Link:        link,
			Description: fmt.Sprintf("投票数 %d · 平均分 %.2f · 贝叶斯平均 %.2f", p.Votes, p.AverageScore, p.BayesianAverageScore),
			PubDate:     pubDate,
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	if !snap.LastUpdated.IsZero() {
		feed.Channel.LastBuildDate = snap.LastUpdated.UTC().Format(http.TimeFormat)
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
