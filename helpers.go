package pollboard

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/views"
)

const (
	sessionName = "pollboard"
	paramPage   = "page"
	paramNotice = "notice"
)

// Notice codes carried through the refresh redirect.
const (
	noticeRefreshed = "refreshed"
	noticeThrottled = "throttled"
	noticeFailed    = "failed"
)

var notices = map[string]string{
	noticeRefreshed: "数据已刷新",
	noticeThrottled: "刷新过于频繁，请稍后再试",
	noticeFailed:    "刷新失败，继续显示之前的数据",
}

// request is the parsed dashboard state of one HTTP request.
type request struct {
	Query poll.Query
	Sort  poll.SortState
	Page  int
}

// parseRequest reads filters, sort and page from the query string. Bad
// values are a 400. With remember set, an explicit sort is stored in the
// session and an absent one is restored from it.
func parseRequest(c echo.Context, remember bool) (request, error) {
	params := c.QueryParams()
	q, err := poll.ParseQuery(params)
	if err != nil {
		return request{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s, explicit, err := poll.ParseSort(params)
	if err != nil {
		return request{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if remember {
		if explicit {
			saveSortPref(c, s)
		} else if saved, ok := loadSortPref(c); ok {
			s = saved
		}
	}
	page, err := parsePage(c.QueryParam(paramPage))
	if err != nil {
		return request{}, err
	}
	return request{Query: q, Sort: s, Page: page}, nil
}

func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid page: "+strconv.Quote(raw))
	}
	return n, nil
}

func loadSortPref(c echo.Context) (poll.SortState, bool) {
	sess, err := session.Get(sessionName, c)
	if err != nil || sess == nil {
		return poll.SortState{}, false
	}
	rawField, _ := sess.Values[poll.ParamSort].(string)
	rawDir, _ := sess.Values[poll.ParamDir].(string)
	field, err := poll.ParseSortField(rawField)
	if err != nil {
		return poll.SortState{}, false
	}
	dir, err := poll.ParseDirection(rawDir)
	if err != nil {
		return poll.SortState{}, false
	}
	return poll.SortState{Field: field, Direction: dir}, true
}

func saveSortPref(c echo.Context, s poll.SortState) {
	sess, err := session.Get(sessionName, c)
	if sess == nil {
		c.Logger().Warnf("session: %v", err)
		return
	}
	sess.Values[poll.ParamSort] = string(s.Field)
	sess.Values[poll.ParamDir] = string(s.Direction)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warnf("session save: %v", err)
	}
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	return views.BuildURL(base, pathSegments...)
}
