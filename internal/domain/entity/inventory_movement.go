package entity

import (
	"strings"
	"time"
)

// MovementType tipo de movimiento. Los valores coinciden con la columna "Tipo" del libro.
type MovementType string

const (
	MovementTypeIN  MovementType = "Entrada"
	MovementTypeOUT MovementType = "Salida"
)

// ParseMovementType acepta el valor del libro y sus alias habituales (in/out, entrada/salida).
func ParseMovementType(s string) (MovementType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada", "in", "inbound", "e":
		return MovementTypeIN, true
	case "salida", "out", "outbound", "s":
		return MovementTypeOUT, true
	}
	return "", false
}

// Movement representa una fila del historial de movimientos (append-only).
// ProductName es el nombre del producto al momento de registrar, no una referencia viva.
type Movement struct {
	Date        time.Time
	ProductName string
	Type        MovementType
	Quantity    int
	User        string
	Notes       string
	StockBefore int
	StockAfter  int
}
