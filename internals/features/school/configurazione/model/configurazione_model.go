package model

// Parametro di configurazione della scuola (riga chiave/valore).
type ConfigurazioneModel struct {
	ConfigurazioneParametro string `json:"configurazione_parametro" gorm:"column:configurazione_parametro;type:varchar(60);primaryKey"`
	ConfigurazioneCategoria string `json:"configurazione_categoria" gorm:"column:configurazione_categoria;type:varchar(30);not null;default:'SCUOLA'"`
	ConfigurazioneValore    string `json:"configurazione_valore"    gorm:"column:configurazione_valore;type:text;not null"`
}

func (ConfigurazioneModel) TableName() string { return "configurazione" }
