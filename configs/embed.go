// Package configs provides embedded configuration templates for gitglob.
//
// Templates are embedded at build time so `gitglob config init` works from
// any distribution:
//   - user-config.example.yaml: settings for every project on this machine
//   - project-config.example.yaml: settings committed with one project
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/gitglob/config.yaml)
//  3. Project config (.gitglob.yaml)
//  4. Environment variables (GITGLOB_*)
package configs

import _ "embed"

// UserConfigTemplate is written by `gitglob config init`.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is written by `gitglob config init --project` as
// .gitglob.yaml in the project root.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
