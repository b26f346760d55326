// Package scaffold creates new projects and new content files.
package scaffold

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/victor/internal/config"
)

const (
	ArchetypesDir = "archetypes"
	// DefaultArchetype is the archetype used for markdown files.
	DefaultArchetype = "default.md"
)

// defaultArchetype stamps the creation date on new markdown files.
const defaultArchetype = `---
date: {{ now() }}
title: Untitled
description: ""
categories: []
---

`

// InitResult lists what Init did.
type InitResult struct {
	Created []string
	Kept    []string
}

// Init lays out a new project under root: config.yaml, the default
// archetype and the content, static, layouts and public directories.
// Existing configuration and archetypes are kept unless force is set.
func Init(root string, force bool) (*InitResult, error) {
	res := &InitResult{}
	for _, dir := range []string{"content", "static", "layouts", "public", ArchetypesDir} {
		p := filepath.Join(root, dir)
		if _, err := os.Stat(p); err == nil {
			continue
		}
		if err := os.MkdirAll(p, 0o750); err != nil {
			return nil, fsError(err, "cannot create project directory", p)
		}
		res.Created = append(res.Created, dir+"/")
	}

	cfgPath := filepath.Join(root, "config.yaml")
	switch exists, err := fileExistsAt(cfgPath); {
	case err != nil:
		return nil, fsError(err, "cannot inspect configuration", cfgPath)
	case exists && !force:
		res.Kept = append(res.Kept, "config.yaml")
	default:
		if err := config.Init(cfgPath, true); err != nil {
			return nil, fsError(err, "cannot write configuration", cfgPath)
		}
		res.Created = append(res.Created, "config.yaml")
	}

	arch := filepath.Join(root, ArchetypesDir, DefaultArchetype)
	rel := filepath.ToSlash(filepath.Join(ArchetypesDir, DefaultArchetype))
	switch exists, err := fileExistsAt(arch); {
	case err != nil:
		return nil, fsError(err, "cannot inspect archetype", arch)
	case exists && !force:
		res.Kept = append(res.Kept, rel)
	default:
		if err := os.WriteFile(arch, []byte(defaultArchetype), 0o644); err != nil {
			return nil, fsError(err, "cannot write archetype", arch)
		}
		res.Created = append(res.Created, rel)
	}
	return res, nil
}

func fileExistsAt(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
