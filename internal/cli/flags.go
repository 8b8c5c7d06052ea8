package cli

import (
	"fmt"

	"github.com/mujeralerta/diagnostico/internal/config"
	"github.com/spf13/pflag"
)

const apiURLFlag = "api-url"

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String(apiURLFlag, "", "Backend base URL (overrides MUJER_ALERTA_API_URL)")
}

// applyAPIOverride swaps the backend when --api-url was given.
func applyAPIOverride(app *App, fs *pflag.FlagSet) error {
	f := fs.Lookup(apiURLFlag)
	if f == nil || !f.Changed {
		return nil
	}
	url := config.NormalizeAPIURL(f.Value.String())
	if url == "" {
		return fmt.Errorf("--%s must not be empty", apiURLFlag)
	}
	if app.Connect == nil {
		return fmt.Errorf("--%s is not supported in this build", apiURLFlag)
	}
	app.Backend = app.Connect(url)
	app.logger().Debug("api url overridden", "api_url", url)
	return nil
}
