package model

type Activity struct {
	Model
	Section     string  `gorm:"type:varchar(100);not null;index" json:"section"`
	Subject     string  `gorm:"type:varchar(255);not null" json:"subject"`
	Type        string  `gorm:"type:varchar(100);not null" json:"type"`
	Deadline    string  `gorm:"type:varchar(100)" json:"deadline"` // 自由文本
	Description string  `gorm:"type:text" json:"description"`
	Attachment  *string `gorm:"type:varchar(255)" json:"attachment"` // 存储中的文件名，无附件为 NULL
	TeacherID   uint    `gorm:"index" json:"teacher_id"`
	TeacherName string  `gorm:"type:varchar(100);not null" json:"teacher_name"` // 创建时的教师名快照
}

func (Activity) TableName() string {
	return "activities"
}

// HasAttachment 是否带有附件
func (a *Activity) HasAttachment() bool {
	return a.Attachment != nil && *a.Attachment != ""
}

// AttachmentName 附件文件名，无附件返回空串
func (a *Activity) AttachmentName() string {
	if a.Attachment == nil {
		return ""
	}
	return *a.Attachment
}
