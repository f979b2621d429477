package pollboard

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pollboard/paging"
	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/rank"
	"github.com/eringen/pollboard/views"
	"github.com/eringen/pollboard/vizimage"
)

// snapshot returns the loaded feed. When the feed is not ready it renders the
// loading or failure page itself and reports ok=false.
func (a *App) snapshot(c echo.Context) (snap poll.Snapshot, ok bool, err error) {
	state, snap, loadErr := a.Cache.Status()
	switch state {
	case StateReady:
		return snap, true, nil
	case StateFailed:
		c.Logger().Warnf("serving load failure: %v", loadErr)
		return snap, false, RenderStatus(c, http.StatusBadGateway, views.LoadFailed(a.Config.viewConfig(), CsrfToken(c)))
	default:
		c.Response().Header().Set("Cache-Control", "no-store")
		return snap, false, Render(c, views.Loading(a.Config.viewConfig()))
	}
}

// readySnapshot returns the loaded feed for handlers without a page of their
// own. A failed load is a 502 and a load in flight a 503.
func (a *App) readySnapshot() (poll.Snapshot, error) {
	state, snap, loadErr := a.Cache.Status()
	switch state {
	case StateReady:
		return snap, nil
	case StateFailed:
		return snap, echo.NewHTTPError(http.StatusBadGateway, "failed to load data").SetInternal(loadErr)
	default:
		return snap, echo.NewHTTPError(http.StatusServiceUnavailable, "loading")
	}
}

func (a *App) dashboardData(c echo.Context, tab views.Tab, req request, snap poll.Snapshot, total int) views.DashboardData {
	site := a.Config.viewConfig()
	title, canonical := site.Name, BuildURL(site.URL)
	if tab == views.TabViz {
		title = "可视化 · " + site.Name
		canonical = BuildURL(site.URL, "viz")
	}
	return views.DashboardData{
		Site:        site,
		Meta:        views.PageMeta{Title: title, URL: canonical},
		Tab:         tab,
		Query:       req.Query,
		Sort:        req.Sort,
		Years:       a.Cache.Years(),
		Total:       total,
		LastUpdated: snap.LastUpdated,
		CSRFToken:   CsrfToken(c),
		Notice:      notices[c.QueryParam(paramNotice)],
	}
}

func (a *App) handleTable(c echo.Context) error {
	req, err := parseRequest(c, true)
	if err != nil {
		return err
	}
	snap, ok, err := a.snapshot(c)
	if !ok {
		return err
	}
	posts := poll.Sort(poll.Filter(snap.Posts, req.Query), req.Sort)
	st := paging.At(req.Page, a.Config.PageSize, len(posts))

	d := a.dashboardData(c, views.TabTable, req, snap, len(posts))
	d.Rows = tableRows(paging.Page(posts, st), 0)
	d.Paging = st
	if st.HasMore {
		d.NextURL = views.PageURL(views.PathRows, req.Query, &req.Sort, st.Page+1)
	}
	return Render(c, views.Dashboard(d))
}

// handleRows serves the rows one page reveals, for incremental loading.
func (a *App) handleRows(c echo.Context) error {
	req, err := parseRequest(c, false)
	if err != nil {
		return err
	}
	snap, err := a.readySnapshot()
	if err != nil {
		return err
	}
	posts := poll.Sort(poll.Filter(snap.Posts, req.Query), req.Sort)
	st := paging.At(req.Page, a.Config.PageSize, len(posts))

	next := ""
	if st.HasMore {
		next = views.PageURL(views.PathRows, req.Query, &req.Sort, st.Page+1)
	}
	rows := tableRows(paging.Window(posts, st), (st.Page-1)*st.PageSize)
	return Render(c, views.Rows(a.Config.viewConfig(), rows, next))
}

func tableRows(posts []poll.Post, offset int) []views.Row {
	rows := make([]views.Row, len(posts))
	for i, p := range posts {
		rows[i] = views.Row{Index: offset + i + 1, Post: p}
	}
	return rows
}

func (a *App) handleViz(c echo.Context) error {
	req, err := parseRequest(c, false)
	if err != nil {
		return err
	}
	snap, ok, err := a.snapshot(c)
	if !ok {
		return err
	}
	posts := poll.Filter(snap.Posts, req.Query)

	d := a.dashboardData(c, views.TabViz, req, snap, len(posts))
	d.Items = rank.Items(posts, a.Config.VizLimit)
	return Render(c, views.Dashboard(d))
}

// handleVizPNG rasterises the visualization. Optional parameters: compact=1
// for the narrow font tier, width=N to scale the image down.
func (a *App) handleVizPNG(c echo.Context) error {
	req, err := parseRequest(c, false)
	if err != nil {
		return err
	}
	opts := vizimage.Options{Compact: c.QueryParam("compact") == "1"}
	if raw := c.QueryParam("width"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid width: "+strconv.Quote(raw))
		}
		opts.Scale = w
	}
	snap, err := a.readySnapshot()
	if err != nil {
		return err
	}

	items := rank.Items(poll.Filter(snap.Posts, req.Query), a.Config.VizLimit)
	var buf bytes.Buffer
	if err := a.renderer.WritePNG(&buf, items, opts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

type postsResponse struct {
	Posts []poll.Post `json:"posts"`
	paging.State
	Total       int        `json:"total"`
	Sort        string     `json:"sort"`
	Dir         string     `json:"dir"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// handleAPIPosts returns one page of the filtered, sorted rows as JSON.
func (a *App) handleAPIPosts(c echo.Context) error {
	req, err := parseRequest(c, false)
	if err != nil {
		return err
	}
	snap, err := a.readySnapshot()
	if err != nil {
		return err
	}
	posts := poll.Sort(poll.Filter(snap.Posts, req.Query), req.Sort)
	st := paging.At(req.Page, a.Config.PageSize, len(posts))

	resp := postsResponse{
		Posts: paging.Window(posts, st),
		State: st,
		Total: len(posts),
		Sort:  string(req.Sort.Field),
		Dir:   string(req.Sort.Direction),
	}
	if !snap.LastUpdated.IsZero() {
		t := snap.LastUpdated.UTC()
		resp.LastUpdated = &t
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handleAPIYears(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]int{"years": a.Cache.Years()})
}

// handleRefresh re-fetches the feed on demand and redirects back to the
// dashboard with a notice.
func (a *App) handleRefresh(c echo.Context) error {
	if !a.refreshLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many refresh requests")
	}
	notice := noticeRefreshed
	if _, err := a.Cache.Refresh(c.Request().Context()); err != nil {
		if errors.Is(err, ErrRefreshThrottled) {
			notice = noticeThrottled
		} else {
			c.Logger().Errorf("refresh: %v", err)
			notice = noticeFailed
		}
	}
	return c.Redirect(http.StatusSeeOther, views.PathTable+"?"+paramNotice+"="+notice)
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Cache.Years())
}

func (a *App) handleFeed(c echo.Context) error {
	snap, err := a.readySnapshot()
	if err != nil {
		return err
	}
	return a.renderRSS(c, snap)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nDisallow: /api/\nSitemap: " + strings.TrimSuffix(BuildURL(a.Config.URL), "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.viewConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.Config.viewConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
