package controller

import (
	"errors"
	"strconv"

	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// List godoc
// @Summary List lessons (admin)
// @Description Supports title search and a created-time filter (today, last_7_days, last_30_days)
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   search      query string false "Title search"
// @Param   time_filter query string false "today | last_7_days | last_30_days"
// @Param   page        query int    false "Page"
// @Param   limit       query int    false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/lessons [get]
func (c *LessonController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	lessons, total, err := c.LessonService.List(ctx.Query("search"), ctx.Query("time_filter"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: lessons, Total: total, Page: page, Limit: limit})
}

// ListByCourse godoc
// @Summary Lessons of a course in position order
// @Tags lessons
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Course id"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/lessons [get]
func (c *LessonController) ListByCourse(ctx *gin.Context) {
	lessons, err := c.LessonService.ListByCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lessons)
}

// Get godoc
// @Summary Lesson detail with ordered components
// @Tags lessons
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Lesson id"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	lesson, err := c.LessonService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// Create godoc
// @Summary Create lesson (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.LessonInput true "Lesson"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := c.LessonService.Create(input, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, lesson)
}

// Update godoc
// @Summary Update lesson (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int                 true "Lesson id"
// @Param   body body service.LessonInput true "Lesson"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary Delete lesson (admin)
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Lesson id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	if err := c.LessonService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// Complete godoc
// @Summary Mark a lesson as completed
// @Tags lessons
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Lesson id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.LessonService.Complete(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// AddComponent godoc
// @Summary Add a component to a lesson (admin)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ComponentInput true "Component"
// @Success 201 {object} util.Response{data=model.Component}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/components [post]
func (c *LessonController) AddComponent(ctx *gin.Context) {
	var input service.ComponentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	component, err := c.LessonService.AddComponent(input)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, component)
}

// RemoveComponent godoc
// @Summary Remove a component (admin)
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Component id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/components/{id} [delete]
func (c *LessonController) RemoveComponent(ctx *gin.Context) {
	if err := c.LessonService.RemoveComponent(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrComponentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
