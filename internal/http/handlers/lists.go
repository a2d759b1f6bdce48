package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/geocoder89/travellog/internal/cache"
	"github.com/geocoder89/travellog/internal/observability"
	"github.com/geocoder89/travellog/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	headerPage     = "Pagination-Page"
	headerPageSize = "Pagination-PageSize"
	headerTotal    = "Pagination-Total"
)

// Lists renders paginated collections: pagination and Link headers, ETag,
// and a read-through cache of the rendered page.
type Lists struct {
	cache   cache.Store
	prom    *observability.Prom
	baseURL string
}

func NewLists(store cache.Store, prom *observability.Prom, baseURL string) *Lists {
	if store == nil {
		store = cache.Nop{}
	}

	return &Lists{cache: store, prom: prom, baseURL: baseURL}
}

type cachedPage struct {
	Items json.RawMessage `json:"items"`
	Total int64           `json:"total"`
}

type loadFunc func() (items any, total int64, err error)

// Serve answers a list request for resource, loading on a cache miss. The
// key carries the list generation read before loading, so a page loaded
// across a concurrent write is stored under a key that is already dead.
func (l *Lists) Serve(ctx *gin.Context, resource string, parent *int64, page utils.Page, load loadFunc) {
	reqCtx := ctx.Request.Context()

	gen, cacheable := l.cache.Generation(reqCtx, utils.ListGenerationKey)
	key := utils.BuildListCacheKey(gen, resource, parent, page)

	if cacheable {
		if raw, ok := l.cache.Get(reqCtx, key); ok {
			var cp cachedPage
			if err := json.Unmarshal(raw, &cp); err == nil {
				l.prom.ObserveCache(resource, true)
				l.write(ctx, page, cp)
				return
			}
		}
		l.prom.ObserveCache(resource, false)
	}

	items, total, err := load()
	if err != nil {
		respondServiceError(ctx, err, ctx.Param(idParamFor(resource)), "Could not list "+resource)
		return
	}

	body, err := json.Marshal(items)
	if err != nil {
		RespondInternal(ctx, "Could not list "+resource)
		return
	}

	cp := cachedPage{Items: body, Total: total}
	if cacheable {
		if raw, err := json.Marshal(cp); err == nil {
			l.cache.Set(reqCtx, key, raw)
		}
	}

	l.write(ctx, page, cp)
}

// Invalidate retires every cached list. Child counts cross resources, so a
// write to any collection can change any list. Bumping the generation is what
// makes old pages unreachable; the prefix delete only frees their memory.
func (l *Lists) Invalidate(ctx context.Context) {
	l.cache.Bump(ctx, utils.ListGenerationKey)
	l.cache.DeletePrefix(ctx, utils.ListCachePrefix)
}

func (l *Lists) write(ctx *gin.Context, page utils.Page, cp cachedPage) {
	ctx.Header(headerPage, strconv.Itoa(page.Number))
	ctx.Header(headerPageSize, strconv.Itoa(page.Size))
	ctx.Header(headerTotal, strconv.FormatInt(cp.Total, 10))
	ctx.Header("Link", utils.BuildLinkHeader(l.baseURL+ctx.Request.URL.Path, ctx.Request.URL.Query(), page, cp.Total))

	respondBodyWithETag(ctx, http.StatusOK, cp.Items)
}

// idParamFor names the path parameter of nested lists so a missing parent
// gets the usual 404 text.
func idParamFor(resource string) string {
	if resource == "trip-places" {
		return "tripid"
	}
	return ""
}
