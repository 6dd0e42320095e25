package plugin_test

import (
	"fmt"

	"github.com/cwbudde/algo-retain/plugin"
)

func Example() {
	inst, err := plugin.New(48000)
	if err != nil {
		fmt.Println("error")
		return
	}

	const block = 128

	blend := 100.0
	trigger := 0.0
	inL := make([]float64, block)
	inR := make([]float64, block)
	outL := make([]float64, block)
	outR := make([]float64, block)

	_ = inst.ConnectControl(plugin.PortBlend, &blend)
	_ = inst.ConnectControl(plugin.PortTrigger, &trigger)
	_ = inst.ConnectAudio(plugin.PortInputL, inL)
	_ = inst.ConnectAudio(plugin.PortInputR, inR)
	_ = inst.ConnectAudio(plugin.PortOutputL, outL)
	_ = inst.ConnectAudio(plugin.PortOutputR, outR)

	inst.Activate()

	trigger = 1
	err = inst.Run(block)
	fmt.Println(err, inst.Effect().Armed())

	// Output:
	// <nil> true
}
