package client

import (
	"github.com/coreos/go-semver/semver"

	"croupier-sdk-go/corerr"
)

// SDKVersion is this module's own semantic version, compared against the
// min_agent_version an Agent's registration response may report it requires
// of connecting clients.
const SDKVersion = "1.0.0"

// checkMinAgentVersion fails the handshake if minVersion (an Agent's stated
// minimum compatible client version) is newer than SDKVersion. An empty
// minVersion means the Agent imposes no floor.
func checkMinAgentVersion(minVersion string) error {
	if minVersion == "" {
		return nil
	}

	required, err := semver.NewVersion(minVersion)
	if err != nil {
		return corerr.Wrap(corerr.InvalidArgument, err, "client: parse min_agent_version %q", minVersion)
	}

	ours := semver.New(SDKVersion)
	if ours.LessThan(*required) {
		return corerr.New(corerr.HandlerRejected, "client: SDK version %s is older than agent-required minimum %s", SDKVersion, minVersion)
	}
	return nil
}
