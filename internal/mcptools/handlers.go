package mcptools

import (
	"context"

	"github.com/dusk-indust/concierge/internal/doctors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListDoctorsOutput is the structured result of the list_doctors tool.
type ListDoctorsOutput struct {
	Doctors []doctors.Doctor `json:"doctors" jsonschema:"matching providers, or a single record carrying an error"`
}

// DoctorService holds the directory served by the MCP tool handlers.
type DoctorService struct {
	dir *doctors.Directory
}

// NewDoctorService creates a DoctorService over dir.
func NewDoctorService(dir *doctors.Directory) *DoctorService {
	return &DoctorService{dir: dir}
}

// ListDoctors looks providers up by state and/or city. An unfiltered query is
// not a tool error; it returns the directory's error record.
func (s *DoctorService) ListDoctors(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input doctors.Query,
) (*mcp.CallToolResult, ListDoctorsOutput, error) {
	return nil, ListDoctorsOutput{Doctors: s.dir.Find(input)}, nil
}
