package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/csvexport"
)

func TestWriteMovements(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 5, 0, time.Local)
	movs := []entity.Movement{
		{Date: at, ProductName: "Widget", Type: entity.MovementTypeIN, Quantity: 5, User: "ana", StockBefore: 10, StockAfter: 15},
		{Date: at, ProductName: "Caja, grande", Type: entity.MovementTypeOUT, Quantity: 1, Notes: "dijo \"urgente\"", StockBefore: 1, StockAfter: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, csvexport.WriteMovements(&buf, movs))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "UTF-8 con BOM")

	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Fecha", "Producto", "Tipo", "Cantidad", "Usuario", "Observaciones", "Stock Antes", "Stock Después"}, records[0])
	assert.Equal(t, []string{"2024-03-01 09:00:05", "Widget", "Entrada", "5", "ana", "", "10", "15"}, records[1])
	assert.Equal(t, "Caja, grande", records[2][1])
	assert.Equal(t, "dijo \"urgente\"", records[2][5])
}

func TestWriteMovements_Vacio(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, csvexport.WriteMovements(&buf, nil))
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "solo encabezado")
}
