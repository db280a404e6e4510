package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Esiti anomali delle mutazioni del registro.
var (
	// Stessa mutazione arrivata due volte: il chiamante la tratta
	// come no-op, non come errore.
	ErrDuplicato = errors.New("entità già registrata")

	// La rimozione lascerebbe il registro incoerente (es. voti
	// orfani non riassegnabili).
	ErrIntegrita = errors.New("operazione in conflitto con dati collegati")
)

// ErroreRicalcolo avvolge un fallimento del ricalcolo ore: chi lo
// riceve deve annullare l'intera transazione.
type ErroreRicalcolo struct {
	Err error
}

func (e *ErroreRicalcolo) Error() string {
	return fmt.Sprintf("ricalcolo ore fallito: %v", e.Err)
}

func (e *ErroreRicalcolo) Unwrap() error { return e.Err }

// SeViolazioneUnicita riconosce la violazione di chiave univoca sia
// dalla traduzione GORM che dal codice 23505 di Postgres.
func SeViolazioneUnicita(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
