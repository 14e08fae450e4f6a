package route_test

import (
	"fmt"

	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/route"
)

// ExampleReconstruct orders arcs that arrive in catalog order.
func ExampleReconstruct() {
	activated := []catalog.ArcKey{
		{Carrier: "DHL", Origin: "Bulgaria", Destination: "Germany"},
		{Carrier: "UPS", Origin: "Austria", Destination: "Bulgaria"},
	}

	p, err := route.Reconstruct("Austria", activated, route.WithSink("Germany"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(p)
	fmt.Println(p.Hops)
	// Output:
	// [(UPS, Austria, Bulgaria), (DHL, Bulgaria, Germany)]
	// 2
}
