package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	mididev "go-surface/midi"
	"go-surface/surface"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectConsoles()
	case "lcd":
		testLCD(strings.Join(os.Args[2:], " "))
	case "meters":
		testMeters()
	case "monitor":
		monitor()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI ports")
	fmt.Println("  detect        - Find DDX3216 / Mackie units")
	fmt.Println("  lcd [text]    - Write text to the console LCD")
	fmt.Println("  meters        - Sweep the level meters")
	fmt.Println("  monitor       - Print decoded console input")
	fmt.Println("  poll          - Poll for device changes")
}

type ports struct {
	ins  []drivers.In
	outs []drivers.Out
}

// getPorts lists ports with a timeout (CoreMIDI can hang).
func getPorts() (ports, bool) {
	ch := make(chan ports, 1)
	go func() {
		ch <- ports{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r, true
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return ports{}, false
	}
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	r, ok := getPorts()
	if !ok {
		return
	}
	for i, p := range r.ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range r.outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func detectConsoles() {
	fmt.Println("Looking for consoles...")

	r, ok := getPorts()
	if !ok {
		return
	}
	found := 0
	for i, p := range r.ins {
		if t := mididev.Classify(p.String()); t != mididev.ControllerUnknown {
			fmt.Printf("Found input:  %d: %s (%s)\n", i, p.String(), t)
			found++
		}
	}
	for i, p := range r.outs {
		if t := mididev.Classify(p.String()); t != mididev.ControllerUnknown {
			fmt.Printf("Found output: %d: %s (%s)\n", i, p.String(), t)
		}
	}

	if found > 0 {
		fmt.Printf("\n%d console unit(s) detected\n", found)
	} else {
		fmt.Println("\nNo console found")
	}
}

// openSurface opens the first main unit output.
func openSurface() func(midi.Message) error {
	r, ok := getPorts()
	if !ok {
		return nil
	}
	p, err := mididev.FindSurfaceOut(r.outs, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil
	}
	fmt.Printf("Using output: %s\n", p.String())
	send, err := midi.SendTo(p)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return nil
	}
	return send
}

func testLCD(text string) {
	send := openSurface()
	if send == nil {
		return
	}
	if text == "" {
		text = "go-surface LCD test"
	}

	codec := surface.NewCodec()
	ruler := strings.Repeat("0123456789", codec.Width/10+1)
	for _, msg := range []midi.Message{
		surface.BacklightFrame(2),
		codec.Text(0, text),
		codec.Text(1, ruler),
	} {
		if err := send(msg); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}
	for _, msg := range surface.AssignmentFrames("LC") {
		send(msg)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	send(codec.Text(0, ""))
	send(codec.Text(1, ""))
	fmt.Println("Done!")
}

func testMeters() {
	send := openSurface()
	if send == nil {
		return
	}

	fmt.Println("Sweeping meters...")
	for m := 0; m < surface.NumStrips; m++ {
		send(surface.MeterModeFrame(byte(m), 1))
	}
	send(surface.GlobalMeterFrame(true))
	for level := 0; level <= 13; level++ {
		for m := 0; m < surface.NumStrips; m++ {
			send(surface.MeterLevel(m, (level+m)%14))
		}
		time.Sleep(100 * time.Millisecond)
	}
	for m := 0; m < surface.NumStrips; m++ {
		send(surface.MeterLevel(m, 0))
		send(surface.MeterModeFrame(byte(m), 0))
	}
	fmt.Println("Done!")
}

func monitor() {
	r, ok := getPorts()
	if !ok {
		return
	}
	var in drivers.In
	for _, p := range r.ins {
		if mididev.Classify(p.String()) != mididev.ControllerUnknown {
			in = p
			break
		}
	}
	if in == nil {
		fmt.Println("No console found")
		return
	}

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.String())
	codec := surface.NewCodec()
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		ev, ok := surface.FromMessage(msg, surface.Flags{System: true})
		if !ok {
			fmt.Printf("[%6d] ? %s\n", timestampms, msg)
			return
		}
		line := fmt.Sprintf("[%6d] %s", timestampms, ev)
		if ev.Kind == surface.KindSysEx {
			if s, ok := codec.Decode(ev.SysEx); ok {
				line += fmt.Sprintf("  -> %s ch %d %.3f", s.Kind, s.Channel, s.Value)
			}
		}
		fmt.Println(line)
	}, midi.UseSysEx())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a console to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		r, ok := getPorts()
		if !ok {
			time.Sleep(2 * time.Second)
			continue
		}

		var inNames, outNames []string
		for _, p := range r.ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range r.outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if t := mididev.Classify(name); t != mididev.ControllerUnknown {
					fmt.Printf("  -> %s detected: %s\n", t, name)
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
