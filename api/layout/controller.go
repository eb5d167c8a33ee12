package layoutapi

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	dmn "github.com/beka-birhanu/vinom-structures/domain"
	"github.com/beka-birhanu/vinom-structures/emit"
	"github.com/beka-birhanu/vinom-structures/service"
	"github.com/beka-birhanu/vinom-structures/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller serves layout batches and their placement records.
type Controller struct {
	layoutService i.LayoutService
	emitter       *emit.Emitter
}

// NewController initializes a Controller.
func NewController(ls i.LayoutService, e *emit.Emitter) (*Controller, error) {
	if ls == nil || e == nil {
		return nil, errors.New("layout service and emitter are required")
	}
	return &Controller{
		layoutService: ls,
		emitter:       e,
	}, nil
}

// Register registers the layout routes.
func (c *Controller) Register(route *gin.RouterGroup) {
	layouts := route.Group("/layouts")
	{
		layouts.POST("", c.generate)
		layouts.GET("", c.recent)
		layouts.GET("/:ID", c.batch)
		layouts.GET("/:ID/records", c.records)
	}
	route.GET("/structures", c.structures)
}

// generate handles batch generation requests.
func (c *Controller) generate(ctx *gin.Context) {
	var request GenerateLayoutRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, err := c.layoutService.Generate(ctx.Request.Context(), i.GenerateRequest{
		Width:           request.Width,
		Depth:           request.Depth,
		Tries:           request.Tries,
		TrialMultiplier: request.TrialMultiplier,
		Seed:            request.Seed,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while generating layouts"})
		return
	}

	ctx.JSON(http.StatusCreated, batch)
}

// recent lists the latest batches.
func (c *Controller) recent(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	batches, err := c.layoutService.Recent(limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while listing layouts"})
		return
	}

	response := make([]BatchSummaryResponse, 0, len(batches))
	for _, b := range batches {
		response = append(response, newBatchSummary(b))
	}
	ctx.JSON(http.StatusOK, response)
}

// batch retrieves a stored batch.
func (c *Controller) batch(ctx *gin.Context) {
	batch, ok := c.lookup(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, batch)
}

// records renders a stored batch as placement records.
func (c *Controller) records(ctx *gin.Context) {
	batch, ok := c.lookup(ctx)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := c.emitter.WriteBatch(&buf, c.layoutService.Structures(), batch); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while rendering records"})
		return
	}
	ctx.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

// structures lists the catalog.
func (c *Controller) structures(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, StructuresResponse{Structures: c.layoutService.Structures()})
}

func (c *Controller) lookup(ctx *gin.Context) (*dmn.Batch, bool) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}

	batch, err := c.layoutService.Batch(ID)
	if err != nil {
		if errors.Is(err, dmn.ErrBatchNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
			return nil, false
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while loading batch"})
		return nil, false
	}
	return batch, true
}
