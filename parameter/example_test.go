// SPDX-License-Identifier: MIT
package parameter_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/waveinv/parameter"
	"github.com/katalvlaran/waveinv/waveform"
)

func ExampleCatalog_Resolve() {
	cat, _ := parameter.ReadCatalog(strings.NewReader(`
PAR2 6271 1
MU 12.5 -33 5961 1
`))
	col, ok := cat.Resolve(waveform.TypeMU, waveform.Location{Lat: 12.5, Lon: -33, Radius: 5961})
	fmt.Println(cat.Len(), col, ok)
	// Output: 2 1 true
}
