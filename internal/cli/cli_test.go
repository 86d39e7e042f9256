/*
** Copyright (C) 2025 Rochus Keller (me@rochus-keller.ch)
**
** This file is part of the modcc-go project.
**
**
** GNU Lesser General Public License Usage
** This file may be used under the terms of the GNU Lesser
** General Public License version 2.1 or version 3 as published by the Free
** Software Foundation and appearing in the file LICENSE.LGPLv21 and
** LICENSE.LGPLv3 included in the packaging of this file. Please review the
** following information to ensure the GNU Lesser General Public License
** requirements will be met: https://www.gnu.org/licenses/lgpl.html and
** http://www.gnu.org/licenses/old-licenses/lgpl-2.1.html.
*/

package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-sim/modcc-go/internal/config"
	"github.com/arbor-sim/modcc-go/internal/log"
)

func TestSetupDefaults(t *testing.T) {
	var f Flags
	env, err := f.Setup("test")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), env.Config)
	assert.Equal(t, "test", env.Logger.Name())
	assert.False(t, env.Logger.Enabled(log.LevelDebug))
}

func TestSetupFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"error\"\n[output]\ncolor = true\n"), 0o644))

	cmd := &cobra.Command{Use: "x"}
	var f Flags
	f.Register(cmd)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--config", path, "-v", "--no-color"}))

	env, err := f.Setup("x")
	require.NoError(t, err)
	assert.Equal(t, "debug", env.Config.Log.Level)
	assert.False(t, env.Config.Output.Color)
	assert.True(t, env.Logger.Enabled(log.LevelDebug))
	assert.Equal(t, "ok", env.Styles.Success.Render("ok"))
}

func TestSetupBadConfig(t *testing.T) {
	f := Flags{ConfigFile: "x.ini"}
	_, err := f.Setup("x")
	assert.True(t, errors.Is(err, config.ErrUnknownFormat))
}
