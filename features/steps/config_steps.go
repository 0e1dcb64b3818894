//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clip-trimmer/cmd"
	"clip-trimmer/infrastructure/config"

	"github.com/cucumber/godog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type configContext struct {
	dir      string
	path     string
	settings *config.Settings
	logs     *observer.ObservedLogs
	output   *bytes.Buffer
	err      error
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "clip-trimmer-features-")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			dir:    dir,
			path:   filepath.Join(dir, "config", "settings.toml"),
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext != nil {
			os.RemoveAll(SharedConfigContext.dir)
		}
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^a settings file containing:$`, aSettingsFileContaining)
	ctx.Step(`^no settings file exists$`, noSettingsFileExists)
	ctx.Step(`^I load the settings$`, iLoadTheSettings)
	ctx.Step(`^I start clip-trimmer for the first time$`, iStartForTheFirstTime)
	ctx.Step(`^I run config set "([^"]*)" "([^"]*)"$`, iRunConfigSet)
	ctx.Step(`^the setting "([^"]*)" should be "([^"]*)"$`, theSettingShouldBe)
	ctx.Step(`^(\d+) settings warnings? should be logged$`, settingsWarningsShouldBeLogged)
	ctx.Step(`^the settings file should contain "([^"]*)"$`, theSettingsFileShouldContain)
	ctx.Step(`^the directories "([^"]*)" should exist$`, theDirectoriesShouldExist)
	ctx.Step(`^the config command should fail$`, theConfigCommandShouldFail)
}

func (c *configContext) observedLogger() *zap.Logger {
	core, logs := observer.New(zapcore.WarnLevel)
	c.logs = logs
	return zap.New(core)
}

func aSettingsFileContaining(doc *godog.DocString) error {
	c := SharedConfigContext
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path, []byte(doc.Content), 0644)
}

func noSettingsFileExists() error {
	c := SharedConfigContext
	if _, err := os.Stat(c.path); err == nil {
		return fmt.Errorf("settings file unexpectedly exists at %s", c.path)
	}
	return nil
}

func iLoadTheSettings() error {
	c := SharedConfigContext
	c.settings, c.err = config.Load(c.path, c.observedLogger())
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	return nil
}

func iStartForTheFirstTime() error {
	c := SharedConfigContext
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(c.dir); err != nil {
		return err
	}
	defer os.Chdir(wd)

	c.settings, c.err = config.Bootstrap(c.path, c.observedLogger())
	return c.err
}

func iRunConfigSet(key, value string) error {
	c := SharedConfigContext
	if c.settings == nil {
		if err := iLoadTheSettings(); err != nil {
			return err
		}
	}
	c.err = cmd.RunConfigSetWithDependencies(c.settings, c.path, key, value, c.output)
	return nil
}

func theSettingShouldBe(key, expected string) error {
	c := SharedConfigContext
	got, err := c.settings.Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s = %q, got %q", key, expected, got)
	}
	return nil
}

func settingsWarningsShouldBeLogged(n int) error {
	c := SharedConfigContext
	if got := c.logs.Len(); got != n {
		var msgs []string
		for _, e := range c.logs.All() {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("expected %d warnings, got %d: %v", n, got, msgs)
	}
	return nil
}

func theSettingsFileShouldContain(text string) error {
	data, err := os.ReadFile(SharedConfigContext.path)
	if err != nil {
		return err
	}
	if !strings.Contains(string(data), text) {
		return fmt.Errorf("settings file does not contain %q:\n%s", text, data)
	}
	return nil
}

func theDirectoriesShouldExist(list string) error {
	c := SharedConfigContext
	for _, name := range strings.Split(list, ",") {
		dir := filepath.Join(c.dir, strings.TrimSpace(name))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("expected directory %s", dir)
		}
	}
	return nil
}

func theConfigCommandShouldFail() error {
	if SharedConfigContext.err == nil {
		return fmt.Errorf("expected the config command to fail")
	}
	return nil
}
