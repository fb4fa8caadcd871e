package domain

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultDevicePort is the port the door controller listens on.
const DefaultDevicePort = 8080

type DeviceAddress struct {
	Host string
	Port int
}

func (a DeviceAddress) BaseURL() string {
	return "http://" + net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

func (a DeviceAddress) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

func (a DeviceAddress) Validate() error {
	if strings.TrimSpace(a.Host) == "" {
		return Validation("server address is not set")
	}
	if a.Port <= 0 || a.Port > 65535 {
		return Validation(fmt.Sprintf("invalid server port %d", a.Port))
	}
	return nil
}

// DeviceCommandRequest is a validated command ready for the device client.
type DeviceCommandRequest struct {
	Command   Command
	Parameter string
	Address   DeviceAddress
}

// NewDeviceCommandRequest builds a request for a voice-grammar command.
// The parameter must be present iff the command is change_password, and must
// then be numeric.
func NewDeviceCommandRequest(cmd Command, parameter string, addr DeviceAddress) (DeviceCommandRequest, error) {
	if !cmd.Voice() {
		return DeviceCommandRequest{}, Validation(fmt.Sprintf("command %q cannot be issued by voice", cmd))
	}

	if cmd == CommandChangePassword {
		if parameter == "" {
			return DeviceCommandRequest{}, Validation("password is required")
		}
		if !IsNumericPassword(parameter) {
			return DeviceCommandRequest{}, Validation("password must be numbers only")
		}
	} else if parameter != "" {
		return DeviceCommandRequest{}, Validation(fmt.Sprintf("command %q takes no parameter", cmd))
	}

	if err := addr.Validate(); err != nil {
		return DeviceCommandRequest{}, err
	}

	return DeviceCommandRequest{Command: cmd, Parameter: parameter, Address: addr}, nil
}
