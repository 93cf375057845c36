package suuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// randomInterface is reported by NodeResolver.Interface when no hardware
// address was usable and a random node is in use.
const randomInterface = "random"

// multicastBit marks a node as not being an IEEE 802 address (RFC 4122 §4.5).
const multicastBit = 1 << 40

// NodeResolver finds the 48-bit node ID for version 1 UUIDs. The first
// interface with a non-zero hardware address wins; when there is none a
// random node with the multicast bit set is used. The result is computed
// once and cached.
type NodeResolver struct {
	once       sync.Once
	interfaces func() ([]net.Interface, error)
	randReader io.Reader

	node  uint64
	iface string
}

// NewNodeResolver returns a resolver over the host's network interfaces.
func NewNodeResolver() *NodeResolver {
	return newNodeResolver(net.Interfaces, rand.Reader)
}

func newNodeResolver(interfaces func() ([]net.Interface, error), r io.Reader) *NodeResolver {
	return &NodeResolver{
		interfaces: interfaces,
		randReader: r,
	}
}

// Node returns the node ID, resolving it on first use.
func (r *NodeResolver) Node() uint64 {
	r.once.Do(r.resolve)
	return r.node
}

// Interface returns the name of the interface the node ID was taken from,
// or "random" if the node was generated.
func (r *NodeResolver) Interface() string {
	r.once.Do(r.resolve)
	return r.iface
}

func (r *NodeResolver) resolve() {
	node, iface, err := r.lookup()
	if err == nil {
		r.node, r.iface = node, iface
		log.Debugf("node %012x from interface %s", node, iface)
		return
	}
	r.node, r.iface = r.randomNode(), randomInterface
	log.Debugf("%v, using random node %012x", err, r.node)
}

func (r *NodeResolver) lookup() (uint64, string, error) {
	ifaces, err := r.interfaces()
	if err != nil {
		return 0, "", errors.Wrap(ErrNodeUnavailable, err.Error())
	}
	for _, iface := range ifaces {
		if node, ok := hardwareNode(iface.HardwareAddr); ok {
			return node, iface.Name, nil
		}
	}
	return 0, "", ErrNodeUnavailable
}

// hardwareNode returns the first six bytes of addr as a node ID. Short and
// all-zero addresses are not usable.
func hardwareNode(addr net.HardwareAddr) (uint64, bool) {
	if len(addr) < 6 {
		return 0, false
	}
	var node uint64
	for _, b := range addr[:6] {
		node = node<<8 | uint64(b)
	}
	return node, node != 0
}

func (r *NodeResolver) randomNode() uint64 {
	var b [8]byte
	if _, err := io.ReadFull(r.randReader, b[2:]); err != nil {
		log.Warnf("random node: %v, deriving node from time and pid", err)
		seed := fmt.Sprintf("%d/%d", time.Now().UnixNano(), os.Getpid())
		binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(seed))
	}
	return (binary.BigEndian.Uint64(b[:]) & maxNode) | multicastBit
}

var defaultNodeResolver = sync.OnceValue(NewNodeResolver)

// GetNode returns the process-wide node ID used by NewV1.
func GetNode() uint64 {
	return defaultNodeResolver().Node()
}

// NodeInterface returns the name of the interface GetNode was derived from,
// or "random".
func NodeInterface() string {
	return defaultNodeResolver().Interface()
}
