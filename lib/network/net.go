package network

import (
	"encoding/binary"
	"errors"
	"net"
)

var (
	ErrNotIPv4       = errors.New("not an IPv4 address")
	ErrNoBroadcast   = errors.New("interface does not support broadcasting")
	ErrInterfaceDown = errors.New("interface is down")
)

// Net is an IP network together with the interface it is attached to.
type Net struct {
	net.IPNet
	Interface net.Interface
}

func (n *Net) IsUp() bool {
	return n.Interface.Flags&net.FlagUp != 0
}

func (n *Net) IsLoopback() bool {
	return n.Interface.Flags&net.FlagLoopback != 0
}

func (n *Net) IsBroadcast() bool {
	return n.Interface.Flags&net.FlagBroadcast != 0
}

// BroadcastIp returns the directed broadcast address of the network,
// i.e. its address with all host bits set.
func (n *Net) BroadcastIp() (ip net.IP, err error) {
	ip4 := n.IP.To4()
	if ip4 == nil {
		err = ErrNotIPv4
		return
	}
	if len(n.Mask) != net.IPv4len {
		err = errors.New("mask is not 4 bytes long")
		return
	}
	ip = make(net.IP, net.IPv4len)
	addr := binary.BigEndian.Uint32(ip4)
	mask := binary.BigEndian.Uint32(n.Mask)
	binary.BigEndian.PutUint32(ip, addr|^mask)
	return
}
