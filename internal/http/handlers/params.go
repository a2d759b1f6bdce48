package handlers

import (
	"strconv"
	"strings"

	"github.com/geocoder89/travellog/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter. A malformed id can never match a
// stored record, so it is answered like any other missing entity.
func pathID(ctx *gin.Context, param, entity string) (int64, bool) {
	raw := ctx.Param(param)

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		RespondNotFound(ctx, entity, raw)
		return 0, false
	}

	return id, true
}

// optionalQueryID reads an optional numeric filter such as ?tripCreator=3.
func optionalQueryID(ctx *gin.Context, name string) (*int64, bool) {
	raw, ok := ctx.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, true
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid query parameter", gin.H{
			"fields": []FieldError{{Field: name, Rule: "numeric", Message: "must be a positive integer"}},
		})
		return nil, false
	}

	return &id, true
}

func pageFrom(ctx *gin.Context) utils.Page {
	return utils.ParsePage(ctx.Query("page"), ctx.Query("pageSize"))
}
