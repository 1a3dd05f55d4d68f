package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:    "CSE Routine",
		Subtitle: "Semester 3",
		Headers:  []string{"Day", "Time", "Course"},
		Rows: []map[string]string{
			{"Day": "SUNDAY", "Time": "08:00-09:00", "Course": "CSE-201 Data Structures"},
			{"Day": "SUNDAY", "Time": "09:00-10:00", "Course": "Lunch, Prayer"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Time,Course", lines[0])
	assert.Equal(t, `SUNDAY,09:00-10:00,"Lunch, Prayer"`, lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 60; i++ {
		data.Rows = append(data.Rows, map[string]string{"Day": "MONDAY", "Time": "10:00-11:00", "Course": "Filler"})
	}
	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRendererMetadata(t *testing.T) {
	var r Renderer = NewPDFExporter()
	assert.Equal(t, "pdf", r.Extension())
	r = NewCSVExporter()
	assert.Equal(t, "text/csv", r.ContentType())
}
