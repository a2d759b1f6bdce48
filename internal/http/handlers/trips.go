package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/travellog/internal/config"
	"github.com/geocoder89/travellog/internal/domain/trip"
	"github.com/gin-gonic/gin"
)

type TripsService interface {
	Create(ctx context.Context, req trip.CreateRequest) (trip.Trip, error)
	List(ctx context.Context, f trip.ListFilter) ([]trip.WithPlaceCount, int64, error)
	Get(ctx context.Context, id int64) (trip.WithPlaceCount, error)
	Patch(ctx context.Context, id int64, req trip.PatchRequest) (trip.Trip, error)
	Replace(ctx context.Context, id int64, req trip.ReplaceRequest) (trip.Trip, error)
	Delete(ctx context.Context, id int64) error
}

type TripsHandler struct {
	trips TripsService
	lists *Lists
}

func NewTripsHandler(trips TripsService, lists *Lists) *TripsHandler {
	return &TripsHandler{trips: trips, lists: lists}
}

func (h *TripsHandler) Create(ctx *gin.Context) {
	var req trip.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	t, err := h.trips.Create(cctx, req)
	if err != nil {
		respondServiceError(ctx, err, "", "Could not create trip")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusCreated, t)
}

func (h *TripsHandler) List(ctx *gin.Context) {
	creator, ok := optionalQueryID(ctx, "tripCreator")
	if !ok {
		return
	}

	page := pageFrom(ctx)

	h.lists.Serve(ctx, "trips", creator, page, func() (any, int64, error) {
		cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		return h.trips.List(cctx, trip.ListFilter{
			Creator: creator,
			Limit:   page.Limit(),
			Offset:  page.Offset(),
		})
	})
}

func (h *TripsHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "tripid", "trip")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	t, err := h.trips.Get(cctx, id)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("tripid"), "Could not fetch trip")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, t)
}

func (h *TripsHandler) Patch(ctx *gin.Context) {
	id, ok := pathID(ctx, "tripid", "trip")
	if !ok {
		return
	}

	var req trip.PatchRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	t, err := h.trips.Patch(cctx, id, req)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("tripid"), "Could not update trip")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusOK, t)
}

func (h *TripsHandler) Replace(ctx *gin.Context) {
	id, ok := pathID(ctx, "tripid", "trip")
	if !ok {
		return
	}

	var req trip.ReplaceRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	t, err := h.trips.Replace(cctx, id, req)
	if err != nil {
		respondServiceError(ctx, err, ctx.Param("tripid"), "Could not update trip")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.JSON(http.StatusOK, t)
}

func (h *TripsHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "tripid", "trip")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.trips.Delete(cctx, id); err != nil {
		respondServiceError(ctx, err, ctx.Param("tripid"), "Could not delete trip")
		return
	}

	h.lists.Invalidate(cctx)

	ctx.Status(http.StatusNoContent)
}
