package domain

import "time"

// team.go — datos de equipo obtenidos de proveedores externos. El núcleo
// de análisis nunca los consulta directamente: el builder de contexto los
// convierte en ContextSignals antes de entrar al pipeline.

// TeamProfile identifica un equipo en el proveedor de datos.
type TeamProfile struct {
	ID         string
	Name       string
	League     string
	SquadValue float64 // valor de plantilla en EUR, 0 si desconocido
}

// Transfer es un movimiento de mercado reciente del equipo.
type Transfer struct {
	Player   string
	Fee      float64 // EUR, 0 para cesiones o traspasos libres
	Date     time.Time
	Incoming bool
}

// FormResult es el resultado de un partido reciente.
type FormResult string

const (
	FormWin  FormResult = "W"
	FormDraw FormResult = "D"
	FormLoss FormResult = "L"
)

// TeamForm resume los últimos resultados, el más reciente primero.
type TeamForm struct {
	Results []FormResult
}

// Points devuelve los puntos sumados en la racha (3/1/0).
func (f TeamForm) Points() int {
	total := 0
	for _, r := range f.Results {
		switch r {
		case FormWin:
			total += 3
		case FormDraw:
			total++
		}
	}
	return total
}

// WinRate devuelve la fracción de victorias de la racha, 0 si está vacía.
func (f TeamForm) WinRate() float64 {
	if len(f.Results) == 0 {
		return 0
	}
	wins := 0
	for _, r := range f.Results {
		if r == FormWin {
			wins++
		}
	}
	return float64(wins) / float64(len(f.Results))
}

// TeamSnapshot agrega todo lo que el proveedor sabe de un equipo en el
// momento de la consulta.
type TeamSnapshot struct {
	Profile   TeamProfile
	Transfers []Transfer
	Absences  []string // jugadores clave no disponibles
	Form      TeamForm
	FetchedAt time.Time
}
