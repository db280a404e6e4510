package service

// Motivo di rifiuto, stabile e leggibile dalla macchina: i client non
// devono interpretare messaggi in linguaggio naturale.
type Motivo string

const (
	MotivoFestivo              Motivo = "festivo"
	MotivoBloccoScrutinio      Motivo = "blocco_scrutinio"
	MotivoNessunaCattedra      Motivo = "nessuna_cattedra"
	MotivoFinestraScaduta      Motivo = "finestra_scaduta"
	MotivoNonFirmatario        Motivo = "non_firmatario"
	MotivoGiaFirmato           Motivo = "gia_firmato"
	MotivoNonAutore            Motivo = "non_autore"
	MotivoNonStaff             Motivo = "non_staff"
	MotivoLezioneInesistente   Motivo = "lezione_inesistente"
	MotivoDataFutura           Motivo = "data_futura"
	MotivoClasseDiversa        Motivo = "classe_diversa"
	MotivoProvvedimentoAltrui  Motivo = "provvedimento_altrui"
	MotivoAnnotazioneConAvviso Motivo = "annotazione_con_avviso"
	MotivoFiltroDestinatari    Motivo = "filtro_destinatari_non_valido"
	MotivoValutazioniPresenti  Motivo = "classe_valutazioni_presenti"
)

// Esito di una decisione di autorizzazione.
type Esito struct {
	Permesso bool   `json:"permesso"`
	Motivo   Motivo `json:"motivo,omitempty"`
}

func Consentito() Esito { return Esito{Permesso: true} }

func Negato(m Motivo) Esito { return Esito{Permesso: false, Motivo: m} }

// Messaggio utente associato al motivo.
func (m Motivo) Messaggio() string {
	switch m {
	case MotivoFestivo:
		return "Giorno festivo o di riposo"
	case MotivoBloccoScrutinio:
		return "Registro bloccato per scrutinio"
	case MotivoNessunaCattedra:
		return "Nessuna cattedra attiva per la classe"
	case MotivoFinestraScaduta:
		return "Finestra temporale di modifica scaduta"
	case MotivoNonFirmatario:
		return "Solo un firmatario può intervenire sulla lezione"
	case MotivoGiaFirmato:
		return "Lezione già firmata"
	case MotivoNonAutore:
		return "Solo l'autore può intervenire"
	case MotivoNonStaff:
		return "Operazione riservata allo staff"
	case MotivoLezioneInesistente:
		return "Nessuna lezione per la materia in quella data"
	case MotivoDataFutura:
		return "Data nel futuro"
	case MotivoClasseDiversa:
		return "L'alunno non era nella classe in quella data"
	case MotivoProvvedimentoAltrui:
		return "Provvedimento già preso da un altro docente"
	case MotivoAnnotazioneConAvviso:
		return "Annotazione collegata a un avviso di un altro docente"
	case MotivoFiltroDestinatari:
		return "Filtro destinatari non valido"
	case MotivoValutazioniPresenti:
		return "La classe ha ancora valutazioni registrate"
	}
	return "Operazione non consentita"
}
