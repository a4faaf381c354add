// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

// rawatactl exercises raw ATA disk access from the command line.
package main

import "github.com/lf-edge/eve/pkg/rawata/cmd/rawatactl/cmd"

func main() {
	cmd.Execute()
}
