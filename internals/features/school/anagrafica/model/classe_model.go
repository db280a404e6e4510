package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClasseModel struct {
	// PK
	ClasseID uuid.UUID `json:"classe_id" gorm:"column:classe_id;type:uuid;primaryKey"`

	// Identità (1A, 2B, ...)
	ClasseAnno    int    `json:"classe_anno"    gorm:"column:classe_anno;not null;uniqueIndex:uq_classi_anno_sezione"`
	ClasseSezione string `json:"classe_sezione" gorm:"column:classe_sezione;type:varchar(8);not null;uniqueIndex:uq_classi_anno_sezione"`

	ClasseSedeID uuid.UUID `json:"classe_sede_id" gorm:"column:classe_sede_id;type:uuid;not null;index"`

	// Incarichi di classe
	ClasseCoordinatoreID *uuid.UUID `json:"classe_coordinatore_id,omitempty" gorm:"column:classe_coordinatore_id;type:uuid"`
	ClasseSegretarioID   *uuid.UUID `json:"classe_segretario_id,omitempty"   gorm:"column:classe_segretario_id;type:uuid"`

	ClasseCreatedAt time.Time `json:"classe_created_at" gorm:"column:classe_created_at;not null;autoCreateTime"`
	ClasseUpdatedAt time.Time `json:"classe_updated_at" gorm:"column:classe_updated_at;not null;autoUpdateTime"`
}

func (ClasseModel) TableName() string { return "classi" }

func (m *ClasseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClasseID == uuid.Nil {
		m.ClasseID = uuid.New()
	}
	return nil
}

func (m *ClasseModel) Nome() string {
	return fmt.Sprintf("%d%s", m.ClasseAnno, m.ClasseSezione)
}
