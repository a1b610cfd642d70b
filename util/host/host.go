package host

import (
	"os"
)

var Hostip string
var Hostname string

func init() {
	Hostname = lookup("HOSTNAME")
	Hostip = lookup("HOSTIP", "HOST_IP", "PODIP", "POD_IP", "LOCALIP", "LOCAL_IP")
}

// first not empty env wins,"unknown" if all empty
func lookup(envs ...string) string {
	for _, env := range envs {
		if v := os.Getenv(env); v != "" && v != "<"+env+">" {
			return v
		}
	}
	return "unknown"
}
