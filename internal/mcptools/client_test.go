package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dusk-indust/concierge/internal/doctors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTools_ForwardOverMCP(t *testing.T) {
	session := setupSession(t)

	tools, err := Tools(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, tools, 1)

	tool := tools[0]
	assert.Equal(t, doctors.ToolName, tool.Name)
	assert.Equal(t, doctors.ToolDescription, tool.Description)
	assert.NotNil(t, tool.InputSchema)

	text, err := tool.Call(context.Background(), json.RawMessage(`{"state":"TX","city":"Austin"}`))
	require.NoError(t, err)

	var out ListDoctorsOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Len(t, out.Doctors, 3)
}

func TestTools_EmptyInput(t *testing.T) {
	session := setupSession(t)

	tools, err := Tools(context.Background(), session)
	require.NoError(t, err)

	text, err := tools[0].Call(context.Background(), nil)
	require.NoError(t, err)

	var out ListDoctorsOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.Len(t, out.Doctors, 1)
	assert.Equal(t, doctors.ErrNoFilter, out.Doctors[0].Error)
}
