package aeratron

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/brutella/hap/log"
)

type Config struct {
	Name        string // accessory name shown in HomeKit (Aeratron)
	Pin         string // HomeKit setup pin (01020304)
	ListenAddr  string // ip:port the control panel listens on (:8484)
	GPIOChip    string // gpio character device driving the 433MHz transmitter
	GPIOLine    int    // line offset of the transmit pin
	FanAddress  uint8  // address byte matching the fan's DIP switches
	Repeats     uint8  // frame repeats per command, 0 = default
	BurstLength uint8  // repeats per burst, 0 = default
	EventLog    string // event log file, empty = memory only
}

func LoadConfig(filename string) (*Config, error) {
	conf := Config{
		Name:       "Aeratron",
		Pin:        "01020304",
		ListenAddr: ":8484",
		GPIOChip:   "gpiochip0",
		GPIOLine:   17,
		FanAddress: DefaultAddress,
	}

	confFile, err := os.Open(filename)
	if err != nil {
		log.Info.Printf("unable to open config %s: using defaults (%+v)", filename, conf)
		return &conf, nil
	}

	raw, err := ioutil.ReadAll(confFile)
	if err != nil {
		log.Info.Printf(err.Error())
		return nil, err
	}
	confFile.Close()

	err = json.Unmarshal(raw, &conf)
	if err != nil {
		log.Info.Printf(err.Error(), string(raw))
		return nil, err
	}
	log.Info.Printf("using config: %+v", conf)

	return &conf, nil
}
