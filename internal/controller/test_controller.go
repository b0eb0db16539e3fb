package controller

import (
	"errors"
	"strconv"

	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TestController covers the admin side of test definitions. Students never
// touch these endpoints; they go through UserTestController.
type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// List godoc
// @Summary List tests (admin)
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   search query string false "Name search"
// @Param   page   query int    false "Page"
// @Param   limit  query int    false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/tests [get]
func (c *TestController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	tests, total, err := c.TestService.List(ctx.Query("search"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: tests, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Test detail with questions and answers (admin)
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Test id"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response
// @Router /api/admin/tests/{id} [get]
func (c *TestController) Get(ctx *gin.Context) {
	test, err := c.TestService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, test)
}

// Create godoc
// @Summary Create test with nested questions (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.TestInput true "Test definition"
// @Success 201 {object} util.Response{data=model.Test}
// @Failure 400 {object} util.Response
// @Router /api/admin/tests [post]
func (c *TestController) Create(ctx *gin.Context) {
	var input service.TestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.Create(input)
	if err != nil {
		util.UnprocessableEntity(ctx, err.Error())
		return
	}
	util.Created(ctx, test)
}

// Update godoc
// @Summary Replace test definition (admin)
// @Description Questions and answers are replaced wholesale; existing attempts are unaffected
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int               true "Test id"
// @Param   body body service.TestInput true "Test definition"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/admin/tests/{id} [put]
func (c *TestController) Update(ctx *gin.Context) {
	var input service.TestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.Update(util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
		} else {
			util.UnprocessableEntity(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, test)
}

// Delete godoc
// @Summary Delete test (admin)
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Test id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/tests/{id} [delete]
func (c *TestController) Delete(ctx *gin.Context) {
	if err := c.TestService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UploadCover godoc
// @Summary Upload test cover image (admin)
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id   path     int  true "Test id"
// @Param   file formData file true "Image"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/tests/{id}/cover [post]
func (c *TestController) UploadCover(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.TestService.UploadCover(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), file)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
