package controller

import (
	"errors"

	"lingua_edu_backend/internal/service"
	"lingua_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserTestController is the student-facing side of timed tests: starting an
// attempt on a lesson, rendering it, saving drafts and submitting.
type UserTestController struct {
	AttemptService *service.AttemptService
}

func NewUserTestController(attemptService *service.AttemptService) *UserTestController {
	return &UserTestController{AttemptService: attemptService}
}

// StartAttempt godoc
// @Summary Start or resume a test attempt on a lesson
// @Description Resumes a live attempt if one exists. An expired unsubmitted attempt is finalized and its result returned; calling again then starts a fresh attempt if any remain.
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Lesson id"
// @Success 200 {object} util.Response{data=service.StartOutcome}
// @Failure 404 {object} util.Response "Lesson or test component not found"
// @Failure 422 {object} util.Response "Attempt limit reached"
// @Router /api/lessons/{id}/attempt [post]
func (c *UserTestController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	outcome, err := c.AttemptService.StartAttempt(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// GetAttempt godoc
// @Summary Render an attempt
// @Description A live attempt returns questions, stored draft and remaining seconds. An attempt past its time budget is finalized on the spot and its result returned.
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Attempt id"
// @Success 200 {object} util.Response{data=service.StartOutcome}
// @Failure 403 {object} util.Response "Attempt belongs to another user"
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *UserTestController) GetAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	outcome, err := c.AttemptService.GetAttempt(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// swagger:model UpdateAttemptRequest
type UpdateAttemptRequest struct {
	Answers []service.AnswerSubmission `json:"answers"`
	IsDraft bool                       `json:"is_draft"`
}

// UpdateAttempt godoc
// @Summary Save a draft or submit an attempt
// @Description With is_draft the answers are stored without grading. Without it the attempt is graded and closed. A request arriving after the time budget force-finalizes the attempt with its stored answers and discards the payload.
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id   path int                  true "Attempt id"
// @Param   body body UpdateAttemptRequest true "Answers"
// @Success 200 {object} util.Response{data=service.UpdateOutcome}
// @Failure 403 {object} util.Response "Attempt belongs to another user"
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Already submitted"
// @Failure 422 {object} util.Response "Unknown question id"
// @Router /api/attempts/{id} [put]
func (c *UserTestController) UpdateAttempt(ctx *gin.Context) {
	var req UpdateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	outcome, err := c.AttemptService.UpdateAttempt(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Answers, req.IsDraft)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

func (c *UserTestController) renderError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrTestComponentNotFound),
		errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAttemptNotOwned):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrTestAlreadySubmitted):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptLimitReached),
		errors.Is(err, util.ErrUnknownQuestion):
		util.UnprocessableEntity(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
