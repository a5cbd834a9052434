package format

import (
	"fmt"
	"math/rand"
	"time"
)

// accessTimeLayout is the nginx time_local layout. Timestamps are rendered
// in UTC, so the offset is always a literal +0000.
const accessTimeLayout = "02/Jan/2006:15:04:05 -0700"

// ipPoolSize is the number of client addresses the formatter cycles through.
const ipPoolSize = 50

// userAgents contains the client population reported in rendered records.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15",
}

// Access renders nginx-style access log lines:
//
//	203.0.113.7 - - [02/Jan/2006:15:04:05 +0000] "GET /api/users HTTP/1.1" 200 1234 "-" "Mozilla/5.0 ..."
type Access struct {
	ips []string
	now func() time.Time
}

// NewAccess creates an access line formatter with a fresh pool of client IPs.
func NewAccess() *Access {
	return &Access{
		ips: generateIPs(ipPoolSize),
		now: time.Now,
	}
}

// generateIPs builds a pool of plausible client addresses. First and last
// octets skip zero so the addresses read as hosts, not networks.
func generateIPs(n int) []string {
	ips := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ip := fmt.Sprintf("%d.%d.%d.%d",
			1+rand.Intn(255), // #nosec G404
			rand.Intn(256),   // #nosec G404
			rand.Intn(256),   // #nosec G404
			1+rand.Intn(255), // #nosec G404
		)
		ips = append(ips, ip)
	}
	return ips
}

// Render renders one access line for the path and status code.
func (a *Access) Render(path string, status int) ([]byte, error) {
	ip := a.ips[rand.Intn(len(a.ips))]              // #nosec G404
	agent := userAgents[rand.Intn(len(userAgents))] // #nosec G404
	timestamp := a.now().UTC().Format(accessTimeLayout)

	line := fmt.Sprintf(`%s - - [%s] "GET %s HTTP/1.1" %d %d "-" "%s"`,
		ip, timestamp, path, status, bytesSent(status), agent)

	return []byte(line), nil
}

// bytesSent picks a plausible response size for the status code. Successful
// responses carry 200-5000 bytes, errors 150-500.
func bytesSent(status int) int {
	if status == 200 {
		return 200 + rand.Intn(4801) // #nosec G404
	}
	return 150 + rand.Intn(351) // #nosec G404
}
