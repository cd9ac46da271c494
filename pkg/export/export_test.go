package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"date", "artist", "venue"},
		Rows: []map[string]string{
			{"date": "2024-03-09", "artist": "Banda Azul", "venue": "Arena, Recife"},
			{"date": "2024-03-10", "artist": "Trio Norte"},
		},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"date", "artist", "venue"}, records[0])
	assert.Equal(t, "Arena, Recife", records[1][2])
	assert.Equal(t, "", records[2][2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRenderMonth(t *testing.T) {
	grid := calendar.BuildGrid(calendar.NewDate(2024, time.February, 1), calendar.NewDate(2024, time.February, 14))
	labels := map[calendar.Date][]string{
		calendar.NewDate(2024, time.February, 10): {"21:00 Banda Azul @ Arena", "23:00 Trio Norte @ Bar do Zé"},
	}
	for i := 0; i < 12; i++ {
		day := calendar.NewDate(2024, time.February, 20)
		labels[day] = append(labels[day], "Festival de Inverno com nome bem comprido")
	}

	out, err := NewPDFExporter().Render(MonthSchedule{
		Title:  "February 2024",
		Grid:   grid,
		Labels: labels,
		Detail: Dataset{Headers: []string{"date", "artist"}, Rows: []map[string]string{{"date": "2024-02-10", "artist": "Banda Azul"}}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
