package script

import _ "embed"

//go:embed demo.lua
var demoSource string

// Demo returns the events of the built-in demo tune.
func Demo() ([]Event, error) {
	return Run(demoSource)
}

// DemoSource returns the Lua source of the demo tune.
func DemoSource() string {
	return demoSource
}
