package model

type Teacher struct {
	Model
	Name     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 区分大小写
	Password string `gorm:"type:varchar(255);not null" json:"-"`
}

func (Teacher) TableName() string {
	return "teachers"
}
