package model

type EnrolmentStatus string

const (
	EnrolmentPending  EnrolmentStatus = "pending"
	EnrolmentApproved EnrolmentStatus = "approved"
	EnrolmentRejected EnrolmentStatus = "rejected"
)

// swagger:model UserCourse
type UserCourse struct {
	BaseModel
	UserID          uint            `gorm:"index:idx_user_course,unique;not null" json:"userId"`
	CourseID        uint            `gorm:"index:idx_user_course,unique;not null" json:"courseId"`
	EnrolmentStatus EnrolmentStatus `gorm:"size:20;default:'pending'" json:"enrolmentStatus"`
	Progress        int             `gorm:"default:0" json:"progress"`
	Course          *Course         `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (UserCourse) TableName() string {
	return "user_courses"
}
