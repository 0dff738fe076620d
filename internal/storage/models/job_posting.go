package models

import (
	"time"

	"gorm.io/datatypes"
)

// JobPosting 岗位发布表
//
// SkillsJSON 存储职位分析器提取出的技能关键词数组，避免再开一张关联表。
type JobPosting struct {
	JobID          string         `gorm:"type:char(36);primaryKey"`
	JobTitle       string         `gorm:"type:varchar(255);not null"`
	CompanyName    string         `gorm:"type:varchar(255);index:idx_job_postings_company"`
	Location       string         `gorm:"type:varchar(255)"`
	Description    string         `gorm:"type:text;not null"`
	SkillsJSON     datatypes.JSON `gorm:"type:json"`
	RequiredYears  int            `gorm:"type:int;default:0"`
	SalaryCurrency string         `gorm:"type:varchar(10)"`
	SalaryMin      float64        `gorm:"type:decimal(12,2)"`
	SalaryMax      float64        `gorm:"type:decimal(12,2)"`
	Status         string         `gorm:"type:varchar(50);default:'ACTIVE';index:idx_job_postings_status"`
	CreatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}
