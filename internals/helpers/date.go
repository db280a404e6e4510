package helper

import (
	"fmt"
	"time"
)

// Formato canonico delle date nel registro.
const FormatoData = "2006-01-02"

// Tronca alla mezzanotte UTC: tutte le date del registro sono
// normalizzate così prima di finire in tabella o in un confronto.
func TruncaData(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Data(anno int, mese time.Month, giorno int) time.Time {
	return time.Date(anno, mese, giorno, 0, 0, 0, 0, time.UTC)
}

func Oggi() time.Time {
	return TruncaData(time.Now())
}

func DataStr(t time.Time) string {
	return t.Format(FormatoData)
}

func ParseData(s string) (time.Time, error) {
	t, err := time.Parse(FormatoData, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("data non valida %q: %w", s, err)
	}
	return t, nil
}

// Orari di scansione e di entrata/uscita viaggiano come "HH:MM";
// qui diventano minuti dalla mezzanotte per i calcoli sulle ore.
func MinutiOra(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("ora non valida %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("ora fuori intervallo %q", hhmm)
	}
	return h*60 + m, nil
}

func OraStr(minuti int) string {
	return fmt.Sprintf("%02d:%02d", minuti/60, minuti%60)
}
