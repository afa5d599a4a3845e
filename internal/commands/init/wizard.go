// Package initcmd implements the interactive first-run setup wizard.
package initcmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/tailor/internal/core/config"
	"github.com/colonyops/tailor/internal/core/doctor"
	"github.com/colonyops/tailor/internal/core/styles"
	"github.com/colonyops/tailor/internal/core/validate"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	Yes        bool   // skip prompts, use defaults
	Force      bool   // overwrite existing config
	BaseURL    string // pre-specified service URL (empty = prompt)
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	// Check for existing config
	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			w.infof("Init cancelled")
			return nil
		}
	}

	defaults := config.DefaultConfig()
	opts := ConfigOptions{
		BaseURL:    defaults.Service.BaseURL,
		ResumeGlob: defaults.Editor.ResumeGlob,
		ExportFile: defaults.Editor.ExportFile,
		Theme:      defaults.TUI.Theme,
	}
	if w.opts.BaseURL != "" {
		opts.BaseURL = w.opts.BaseURL
	}

	if !w.opts.Yes {
		var err error
		opts, err = w.promptUser(opts)
		if err != nil {
			return err
		}
	}

	// Backup existing config if needed
	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			w.successf("Backed up config to: %s", backupPath)
		}
	}

	if err := WriteConfig(GenerateConfig(opts), w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	w.successf("Created config: %s", w.opts.ConfigPath)

	// Reload the written file and run the doctor's config check against it
	cfg, err := config.Load(w.opts.ConfigPath, defaultsDataDir())
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}

	w.printf("")
	check := doctor.NewConfigCheck(cfg, w.opts.ConfigPath)
	result := check.Run(ctx)

	w.printf(styles.TextForegroundBoldStyle.Render(result.Name))
	for _, item := range result.Items {
		switch item.Status {
		case doctor.StatusPass:
			w.itemf(styles.TextSuccessStyle.Render("✔"), item.Label, item.Detail)
		case doctor.StatusWarn:
			w.itemf(styles.TextWarningStyle.Render("●"), item.Label, item.Detail)
		case doctor.StatusFail:
			w.itemf(styles.TextErrorStyle.Render("✘"), item.Label, item.Detail)
		}
	}

	w.printNextSteps()

	return nil
}

func (w *Wizard) promptUser(defaults ConfigOptions) (ConfigOptions, error) {
	opts := defaults

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Service URL").
			Description("Base URL of the tailor service").
			Validate(validate.ServiceURL).
			Value(&opts.BaseURL),
		huh.NewInput().
			Title("Resume glob").
			Description("Pattern used to find the resume source in the working directory").
			Validate(validate.Glob).
			Value(&opts.ResumeGlob),
		huh.NewInput().
			Title("Export file").
			Description("Filename PDF exports are written to").
			Validate(validate.NonEmpty).
			Value(&opts.ExportFile),
		huh.NewSelect[string]().
			Title("Theme").
			Options(huh.NewOptions(styles.ThemeNames()...)...).
			Value(&opts.Theme),
	))

	if err := form.Run(); err != nil {
		return opts, err
	}

	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	return opts, nil
}

func (w *Wizard) printNextSteps() {
	w.printf("")
	w.printf(styles.TextForegroundBoldStyle.Render("Next Steps"))
	w.printf("  1. cd into a directory containing your resume (.tex)")
	w.printf("  2. Run 'tailor doctor' to verify the service is reachable")
	w.printf("  3. Run 'tailor' to open the editor")
}

func (w *Wizard) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func (w *Wizard) successf(format string, args ...any) {
	w.printf("%s %s", styles.TextSuccessStyle.Render("✔"), fmt.Sprintf(format, args...))
}

func (w *Wizard) infof(format string, args ...any) {
	w.printf("%s %s", styles.TextMutedStyle.Render("·"), fmt.Sprintf(format, args...))
}

func (w *Wizard) itemf(icon, label, detail string) {
	if detail != "" {
		detail = " " + styles.TextMutedStyle.Render(detail)
	}
	w.printf("  %s %s%s", icon, label, detail)
}

// defaultsDataDir mirrors commands.DefaultDataDir, which cannot be imported
// from here without a cycle.
func defaultsDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tailor")
}
