// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package main is the entry point of the disir CLI, a thin wrapper
// exercising the library over the memplugin reference backend.
package main

import (
	"github.com/disir-project/disir/cmd/disir/command"
)

func main() {
	command.Execute()
}
