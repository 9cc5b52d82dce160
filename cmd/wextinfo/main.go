// Command wextinfo reports Wireless Extensions radio status and station PHY
// rates.
package main

import "github.com/mdlayher/wext/cmd/wextinfo/cmd"

func main() {
	cmd.Execute()
}
