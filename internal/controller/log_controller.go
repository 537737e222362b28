package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"loghistory-backend/config"
	"loghistory-backend/internal/dto"
	"loghistory-backend/internal/export"
	"loghistory-backend/internal/filter"
	"loghistory-backend/internal/model"
	"loghistory-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LogController struct {
	logHistoryService service.LogHistoryService
	exportFilename    string
}

func NewLogController(logHistoryService service.LogHistoryService, cfg *config.Config) *LogController {
	filename := cfg.Export.Filename
	if filename == "" {
		filename = export.DefaultFilename
	}
	return &LogController{
		logHistoryService: logHistoryService,
		exportFilename:    filename,
	}
}

func RegisterLogRoutes(router *gin.Engine, controller *LogController) {
	v1 := router.Group("/api/v1/logs")
	{
		v1.GET("", controller.GetLogs)
		v1.GET("/export", controller.ExportLogs)
		v1.GET("/categories", controller.GetCategories)
		v1.GET("/status", controller.GetStatus)
		v1.POST("/refresh", controller.Refresh)
	}
}

// GetLogs godoc
// @Summary      Get a category view of the log history
// @Description  Returns the rows of one category of the aggregated change log, newest first. The job category also carries the job list, excelUploads carries upload records joined with product creation dates.
// @Tags         logs
// @Produce      json
// @Param        category  query     string  false  "Category (default: job)" Enums(job, cart, stock, selectProductsForRepair, excelUploads, all)
// @Success      200       {object}  dto.LogViewResponse "Category view"
// @Failure      400       {object}  model.Response "Unknown category"
// @Failure      500       {object}  model.Response "Internal server error"
// @Router       /api/v1/logs [get]
func (c *LogController) GetLogs(ctx *gin.Context) {
	category, err := model.ParseCategory(ctx.DefaultQuery("category", string(model.CategoryJob)))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	view, err := c.logHistoryService.Query(ctx.Request.Context(), category)
	if err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("Error querying log history")
		ctx.JSON(statusFor(err), model.NewResponse("Failed to query log history", nil))
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// ExportLogs godoc
// @Summary      Export a category as a spreadsheet
// @Description  Downloads the rows of a log-derived category as an .xlsx workbook with the columns Entity, Entity Name, Field, Old Value, New Value, Changed By, Date/Time, Change Type.
// @Tags         logs
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        category  query     string  false  "Category (default: all)" Enums(job, cart, stock, selectProductsForRepair, all)
// @Success      200       {file}    file    "Spreadsheet"
// @Failure      400       {object}  model.Response "Unknown or non-exportable category"
// @Failure      500       {object}  model.Response "Internal server error"
// @Router       /api/v1/logs/export [get]
func (c *LogController) ExportLogs(ctx *gin.Context) {
	category, err := model.ParseCategory(ctx.DefaultQuery("category", string(model.CategoryAll)))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	var buf bytes.Buffer
	if _, err := c.logHistoryService.Export(ctx.Request.Context(), category, &buf); err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("Error exporting log history")
		ctx.JSON(statusFor(err), model.NewResponse(err.Error(), nil))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, c.exportFilename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetCategories godoc
// @Summary      List categories
// @Tags         logs
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/v1/logs/categories [get]
func (c *LogController) GetCategories(ctx *gin.Context) {
	out := make([]dto.CategoryResponse, len(model.Categories))
	for i, cat := range model.Categories {
		out[i] = dto.CategoryResponse{
			Category:   cat,
			Title:      cat.Title(),
			Exportable: cat != model.CategoryExcelUploads,
		}
	}
	ctx.JSON(http.StatusOK, out)
}

// GetStatus godoc
// @Summary      Loading state of the log snapshot and side fetches
// @Tags         logs
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /api/v1/logs/status [get]
func (c *LogController) GetStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.logHistoryService.Status())
}

// Refresh godoc
// @Summary      Reload the log snapshot
// @Description  Refetches products, suppliers and jobs. A failed source leaves an empty snapshot with status failed.
// @Tags         logs
// @Produce      json
// @Success      200  {object}  dto.RefreshResponse
// @Router       /api/v1/logs/refresh [post]
func (c *LogController) Refresh(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.logHistoryService.Refresh(ctx.Request.Context()))
}

func statusFor(err error) int {
	if errors.Is(err, model.ErrUnknownCategory) || errors.Is(err, filter.ErrNotLogDerived) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
