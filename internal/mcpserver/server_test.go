package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ehclinic/medcat/internal/catalog"
	"github.com/ehclinic/medcat/internal/testutil"
)

func testServer(t *testing.T) (*Server, *catalog.Service) {
	t.Helper()

	_, store := testutil.TestStore(t)
	db := testutil.TestDB(t)

	svc, err := catalog.NewService(store, db, nil)
	if err != nil {
		t.Fatal(err)
	}

	srv := New(svc)
	return srv, svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_diseases":
		result, err = srv.searchDiseases(ctx, req)
	case "read_disease":
		result, err = srv.readDisease(ctx, req)
	case "list_diseases":
		result, err = srv.listDiseases(ctx, req)
	case "export_document":
		result, err = srv.exportDocument(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchDiseases(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "search_diseases", map[string]interface{}{"query": "pallor"})
	text := resultText(r)
	if !strings.Contains(text, "Anaemia (General)") {
		t.Errorf("search result missing seed disease: %q", text)
	}

	r = callTool(t, srv, "search_diseases", map[string]interface{}{"query": "xyz123"})
	if strings.Contains(resultText(r), "Anaemia") {
		t.Error("no-match query returned a disease")
	}
}

func TestReadDisease(t *testing.T) {
	srv, svc := testServer(t)

	doc := svc.Document(context.Background())
	id := doc.Diseases[0].ID

	r := callTool(t, srv, "read_disease", map[string]interface{}{"id": id})
	text := resultText(r)
	if !strings.Contains(text, "Anaemia (General)") || !strings.Contains(text, "references") {
		t.Errorf("read result = %q", text)
	}
}

func TestReadDiseaseMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_disease", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing disease")
	}
}

func TestListDiseases(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_diseases", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Anaemia (General)") {
		t.Errorf("list = %q", resultText(r))
	}
}

func TestExportDocument(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "export_document", map[string]interface{}{})
	text := resultText(r)
	if !strings.HasPrefix(text, "EH-doctor-data-") {
		t.Errorf("export missing filename header: %q", text)
	}
	if !strings.Contains(text, `"diseases"`) {
		t.Errorf("export missing document body: %q", text)
	}
}
