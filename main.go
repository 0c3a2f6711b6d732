// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/stackup-dev/stackup/cmd/stackup"

func main() {
	cmd.Execute()
}
