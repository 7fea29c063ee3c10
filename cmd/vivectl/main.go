// Command vivectl is a small interactive console for probing a
// connected lighthouse-tracked HMD and its controllers/trackers: open
// devices, then query pose and mainboard/input status from a line-edited REPL
// (spec.md's ambient CLI surface; in the teacher's manner of
// main.go's "press enter to stop" driver, generalized into a loop).
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"vive-lighthouse-xr-go/constant"
	"vive-lighthouse-xr-go/hidio"
	"vive-lighthouse-xr-go/vive"
)

const historyFile = "/tmp/.vivectl_history"

func main() {
	ctx := vive.NewSharedContext()

	devices := map[string]vive.Device{}

	hmd, err := vive.OpenHMD(ctx,
		hidio.ProbeDevice{VID: constant.VID_VALVE, PID: constant.PID_VIVE_MAINBOARD},
		hidio.ProbeDevice{VID: constant.VID_VALVE, PID: constant.PID_VIVE_LHR},
		"")
	if err != nil {
		fmt.Printf("hmd: failed to open (%v); continuing without one\n", err)
	} else {
		devices["hmd"] = hmd
		defer hmd.Destroy()
		fmt.Println("hmd: connected")
	}

	for i, pid := range []uint16{constant.PID_WATCHMAN_GEN1, constant.PID_WATCHMAN_GEN2} {
		paths, err := hidio.Enumerate(constant.VID_HTC, pid)
		if err != nil {
			continue
		}
		for j, info := range paths {
			name := fmt.Sprintf("dongle%d-%d", i, j)
			dev, err := vive.OpenController(ctx, hidio.ProbeDevice{VID: constant.VID_HTC, PID: pid, Path: info.Path})
			if err != nil {
				fmt.Printf("%s: failed to open (%v)\n", name, err)
				continue
			}
			devices[name] = dev
			defer dev.Destroy()
			fmt.Printf("%s: connected\n", name)
		}
	}

	runRepl(devices)
}

func runRepl(devices map[string]vive.Device) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("vivectl - type 'help' for commands, 'quit' to exit")
	for {
		input, err := line.Prompt("vivectl> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if !dispatch(devices, input) {
			return
		}
	}
}

// dispatch runs one command line and reports whether the REPL should
// keep going (false only on "quit").
func dispatch(devices map[string]vive.Device, input string) bool {
	fields := strings.Fields(input)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		printHelp()
	case "list":
		for name := range devices {
			fmt.Println(name)
		}
	case "pose":
		cmdPose(devices, args)
	case "status":
		cmdStatus(devices, args)
	default:
		fmt.Printf("unknown command %q; type 'help'\n", cmd)
	}
	return true
}

func printHelp() {
	fmt.Println(`commands:
  list                 list connected device names
  pose <device> <input> [time_ns]   query a tracked pose (input: head/grip/tracker)
  status <device>      print mainboard status (hmd only) or input state
  quit                 exit`)
}

func cmdPose(devices map[string]vive.Device, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: pose <device> <input> [time_ns]")
		return
	}
	dev, ok := devices[args[0]]
	if !ok {
		fmt.Printf("no such device %q\n", args[0])
		return
	}
	var targetNS int64
	if len(args) > 2 {
		if v, err := strconv.ParseInt(args[2], 10, 64); err == nil {
			targetNS = v
		}
	}
	rel, err := dev.GetTrackedPose(args[1], targetNS)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("tracked=%v orientationValid=%v positionValid=%v pose=%+v\n",
		rel.Tracked, rel.OrientationValid, rel.PositionValid, rel.Pose)
}

func cmdStatus(devices map[string]vive.Device, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: status <device>")
		return
	}
	dev, ok := devices[args[0]]
	if !ok {
		fmt.Printf("no such device %q\n", args[0])
		return
	}
	switch d := dev.(type) {
	case vive.Statuser:
		fmt.Printf("%+v\n", d.Status())
	case vive.Inputser:
		fmt.Printf("%+v\n", d.Inputs())
	default:
		fmt.Printf("%T: no status getter\n", dev)
	}
}
