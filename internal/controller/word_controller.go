package controller

import (
	"errors"
	"strconv"

	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WordController struct {
	WordService *service.WordService
}

func NewWordController(wordService *service.WordService) *WordController {
	return &WordController{WordService: wordService}
}

// List godoc
// @Summary List words
// @Description Most recent first; supports content search and a created-time filter
// @Tags words
// @Produce  json
// @Security BearerAuth
// @Param   search      query string false "Content search"
// @Param   time_filter query string false "today | last_7_days | last_30_days"
// @Param   page        query int    false "Page"
// @Param   limit       query int    false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/words [get]
func (c *WordController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	words, total, err := c.WordService.List(ctx.Query("search"), ctx.Query("time_filter"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: words, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Word detail
// @Tags words
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Word id"
// @Success 200 {object} util.Response{data=model.Word}
// @Failure 404 {object} util.Response
// @Router /api/words/{id} [get]
func (c *WordController) Get(ctx *gin.Context) {
	word, err := c.WordService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrWordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, word)
}

// Create godoc
// @Summary Create word (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.WordInput true "Word"
// @Success 201 {object} util.Response{data=model.Word}
// @Failure 400 {object} util.Response
// @Router /api/admin/words [post]
func (c *WordController) Create(ctx *gin.Context) {
	var input service.WordInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	word, err := c.WordService.Create(input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, word)
}

// Update godoc
// @Summary Update word (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int               true "Word id"
// @Param   body body service.WordInput true "Word"
// @Success 200 {object} util.Response{data=model.Word}
// @Failure 404 {object} util.Response
// @Router /api/admin/words/{id} [put]
func (c *WordController) Update(ctx *gin.Context) {
	var input service.WordInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	word, err := c.WordService.Update(util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		if errors.Is(err, util.ErrWordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, word)
}

// Delete godoc
// @Summary Delete word (admin)
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Word id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/words/{id} [delete]
func (c *WordController) Delete(ctx *gin.Context) {
	if err := c.WordService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrWordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UploadPronunciation godoc
// @Summary Upload word pronunciation audio (admin)
// @Description Audio is normalized to mp3 before storage
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id   path     int  true "Word id"
// @Param   file formData file true "Audio clip"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/words/{id}/pronunciation [post]
func (c *WordController) UploadPronunciation(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.WordService.UploadPronunciation(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), file)
	if err != nil {
		if errors.Is(err, util.ErrWordNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
