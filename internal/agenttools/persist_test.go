package agenttools

import (
	"path/filepath"
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/julianshen/nereid-core/internal/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPersistentTestWorkspace(t *testing.T) (*Workspace, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "session")
	ws := NewWorkspace(model.NewSession(), opsengine.NewEngine())
	ws.PersistRoot = root
	require.NoError(t, persist.Save(ws.Session, root, false))
	return ws, root
}

func TestDiagramCreateFromMermaidPersists(t *testing.T) {
	ws, root := newPersistentTestWorkspace(t)
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{
		Mermaid:    validSequenceMermaid,
		DiagramID:  "d1",
		Name:       "Login",
		MakeActive: true,
	})
	require.NoError(t, err)

	reloaded, err := persist.Load(root)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.Diagram("d1"))
}

func TestDiagramDeletePersists(t *testing.T) {
	ws, root := newPersistentTestWorkspace(t)
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{
		Mermaid:    validSequenceMermaid,
		DiagramID:  "d1",
		Name:       "Login",
		MakeActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, DiagramDelete(ws, "d1"))

	reloaded, err := persist.Load(root)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Diagram("d1"))
}

func TestWalkthroughCreatePersists(t *testing.T) {
	ws, root := newPersistentTestWorkspace(t)
	_, err := WalkthroughCreate(ws, "w1", "Tour", true)
	require.NoError(t, err)

	reloaded, err := persist.Load(root)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.Walkthrough("w1"))
}
