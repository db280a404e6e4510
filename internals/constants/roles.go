package constants

// Ruoli applicativi, specchio della colonna docenti.docente_ruolo e
// dei claim "ruoli" nel token.
const (
	RoleDocente      = "docente"
	RoleSostegno     = "sostegno"
	RoleStaff        = "staff"
	RolePreside      = "preside"
	RoleAmministratore = "amministratore"
)

// Gruppi usati dalle route per limitare l'accesso.
var (
	DocentiAndAbove = []string{RoleDocente, RoleSostegno, RoleStaff, RolePreside, RoleAmministratore}
	StaffAndAbove   = []string{RoleStaff, RolePreside, RoleAmministratore}
	PresideOnly     = []string{RolePreside, RoleAmministratore}
)

// Messaggi mostrati quando il ruolo non basta.
const (
	ErrSoloDocenti = "❌ Riservato ai docenti"
	ErrSoloStaff   = "❌ Riservato allo staff di direzione"
	ErrSoloPreside = "❌ Riservato al dirigente scolastico"
)
