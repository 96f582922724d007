package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/internal/config"
	"github.com/jakechorley/consult-hub/pkg/core/model"
	"github.com/jakechorley/consult-hub/pkg/core/syncer"
	"github.com/jakechorley/consult-hub/pkg/localstore"
	"github.com/jakechorley/consult-hub/pkg/summary"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg        *config.Config
	Controller *syncer.Controller
	Store      *localstore.RecordStore
	Summarizer summary.Summarizer // nil when no Gemini key is configured
	Logger     *zap.Logger
	Ctx        context.Context

	// Identity of the user running the command
	Role model.Role
	Name string

	Out io.Writer
	In  io.Reader

	loadOnce sync.Once
}

// ensureLoaded performs the controller's cold start once per process
func (app *AppContext) ensureLoaded() {
	app.loadOnce.Do(func() {
		app.Controller.Load(app.Ctx)
	})
}

// startPolling loads the collection and keeps it fresh until the controller is stopped
func (app *AppContext) startPolling() error {
	app.loadOnce.Do(func() {})
	if err := app.Controller.Start(app.Ctx); err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}
	return nil
}

func (app *AppContext) requireRole(role model.Role) error {
	if app.Role != role {
		return fmt.Errorf("this command is for the %s role (run with --as %s)", roleFlag(role), roleFlag(role))
	}
	return nil
}

func (app *AppContext) requireName() (string, error) {
	name := strings.TrimSpace(app.Name)
	if name == "" {
		return "", fmt.Errorf("no name known for the %s role (run with --name)", roleFlag(app.Role))
	}
	return name, nil
}

// visible returns the requests the current user's role view shows
func (app *AppContext) visible(completed bool) []model.ConsultationRequest {
	name := strings.TrimSpace(app.Name)
	if name == "" {
		return app.Controller.Records()
	}
	if app.Role == model.RoleInstructor {
		return app.Controller.ForInstructor(name, completed)
	}
	return app.Controller.ForRequester(name)
}

func (app *AppContext) find(id string) (model.ConsultationRequest, error) {
	rec, ok := app.Controller.Find(id)
	if !ok {
		return model.ConsultationRequest{}, fmt.Errorf("no request with id %s", id)
	}
	return rec, nil
}

func roleFlag(role model.Role) string {
	return strings.ToLower(string(role))
}
