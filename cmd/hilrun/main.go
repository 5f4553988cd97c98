package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/firmworks/hiltest.go/pkg/hwmap"
	"github.com/firmworks/hiltest.go/pkg/link"
	"github.com/firmworks/hiltest.go/pkg/openocd"
	"github.com/firmworks/hiltest.go/pkg/platform"
	"github.com/firmworks/hiltest.go/pkg/report"
	mqttreport "github.com/firmworks/hiltest.go/pkg/report/mqtt"
	"github.com/firmworks/hiltest.go/pkg/runner"
)

var conf = struct {
	Platform      string
	ELF           string
	Mapping       string
	AdapterConfig string
	OpenOCD       string
	TCLAddr       string
	Serial        string
	WorkDir       string
	MQTTURL       string
}{
	Mapping: "adapters.yaml",
	OpenOCD: "openocd",
	TCLAddr: openocd.DefaultTCLAddr,
	WorkDir: "hiltest-run",
}

func init() {
	if val := os.Getenv("HILTEST_MQTT_URL"); val != "" {
		conf.MQTTURL = val
	}
	if val := os.Getenv("HILTEST_OPENOCD"); val != "" {
		conf.OpenOCD = val
	}
	flag.StringVar(&conf.Platform, "platform", "", "Platform id under test.")
	flag.StringVar(&conf.ELF, "elf", "", "Firmware image to load.")
	flag.StringVar(&conf.Mapping, "mapping", conf.Mapping, "Platform to adapter mapping file.")
	flag.StringVar(&conf.AdapterConfig, "adapter-config", "", "OpenOCD adapter config file.")
	flag.StringVar(&conf.OpenOCD, "openocd", conf.OpenOCD, "OpenOCD binary.")
	flag.StringVar(&conf.TCLAddr, "tcl", conf.TCLAddr, "OpenOCD TCL RPC address.")
	flag.StringVar(&conf.Serial, "serial", "", "Serial device override (skips USB discovery).")
	flag.StringVar(&conf.WorkDir, "workdir", conf.WorkDir, "Directory for run artifacts.")
	flag.StringVar(&conf.MQTTURL, "mqtt", conf.MQTTURL, "MQTT broker URL for run reports (optional).")
}

func main() {
	flag.Parse()
	verdict := run()
	glog.Flush()
	os.Exit(verdict.ExitCode())
}

// run resolves all configuration before any hardware is touched, then
// executes exactly one test attempt.
func run() runner.Verdict {
	if conf.Platform == "" || conf.ELF == "" {
		glog.Error("-platform and -elf are required")
		return runner.Failed
	}
	if err := os.MkdirAll(conf.WorkDir, 0755); err != nil {
		glog.Errorf("couldn't prepare working directory: %v", err)
		return runner.Failed
	}

	mapping, err := hwmap.LoadMapping(conf.Mapping)
	if err != nil {
		glog.Errorf("%v", err)
		return runner.Failed
	}
	adapter, err := mapping.Adapter(conf.Platform)
	if err != nil {
		glog.Errorf("%v", err)
		return runner.Failed
	}

	serialDev := conf.Serial
	if serialDev == "" {
		serialDev, err = hwmap.FindSerialDevice(adapter, hwmap.ConsoleInterface)
		if err != nil {
			glog.Errorf("%v", err)
			return runner.Failed
		}
	}
	glog.Infof("platform %s on adapter %v, console %s", conf.Platform, adapter, serialDev)

	ctl, err := platform.New(conf.Platform, platform.Options{TCLAddr: conf.TCLAddr})
	if err != nil {
		glog.Errorf("%v", err)
		return runner.Failed
	}

	launcher := &openocd.Launcher{
		Binary: conf.OpenOCD,
		Args:   probeArgs(adapter, ctl),
	}
	if err := launcher.Start(); err != nil {
		glog.Errorf("couldn't launch OpenOCD: %v", err)
		return runner.Failed
	}
	defer launcher.Stop()

	r := &runner.Runner{
		Platform: ctl,
		Channel: runner.OpenChannelFunc(func() (runner.TelemetryChannel, error) {
			return link.Open(link.DefaultConfig(serialDev))
		}),
	}
	res := r.Run(context.Background(), conf.ELF)
	publishReport(res)
	return res.Verdict
}

func probeArgs(adapter hwmap.AdapterID, ctl platform.Control) []string {
	var args []string
	if conf.AdapterConfig != "" {
		args = append(args, "-f", conf.AdapterConfig)
	}
	args = append(args, "-c", fmt.Sprintf("ftdi vid_pid 0x%04x 0x%04x", adapter.VID, adapter.PID))
	if pc, ok := ctl.(platform.ProbeConfigurer); ok {
		args = append(args, pc.ProbeArgs()...)
	}
	return args
}

func publishReport(res runner.Result) {
	rep := report.New(conf.Platform, conf.ELF, res)
	payload, err := rep.Encode()
	if err != nil {
		glog.Warningf("couldn't encode report: %v", err)
		return
	}

	path := filepath.Join(conf.WorkDir, "report.json")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		glog.Warningf("couldn't write %s: %v", path, err)
	}

	if conf.MQTTURL == "" {
		return
	}
	pub, err := mqttreport.NewPublisher(conf.MQTTURL)
	if err != nil {
		glog.Warningf("bad MQTT URL: %v", err)
		return
	}
	defer pub.Close()
	if err := pub.Connect(); err != nil {
		glog.Warningf("broker unreachable, report not published: %v", err)
		return
	}
	if err := pub.Publish("result/"+rep.Station+"/"+conf.Platform, payload); err != nil {
		glog.Warningf("couldn't publish report: %v", err)
	}
}
