// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command scantest drives the scan chains of simulated designs.
//
package main

import "github.com/db47h/scanchain/cmd/scantest/cmd"

func main() {
	cmd.Execute()
}
