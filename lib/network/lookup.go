package network

import (
	"fmt"
	"net"
)

// Lookup returns the first IPv4 network of the interface with the given name.
// The interface must be up and support broadcasting.
func Lookup(name string) (n Net, err error) {
	in, err := net.InterfaceByName(name)
	if err != nil {
		return
	}
	addrs, err := in.Addrs()
	if err != nil {
		return
	}
	return pick(*in, addrs)
}

func pick(in net.Interface, addrs []net.Addr) (n Net, err error) {
	if in.Flags&net.FlagUp == 0 {
		err = fmt.Errorf("%s: %w", in.Name, ErrInterfaceDown)
		return
	}
	if in.Flags&net.FlagBroadcast == 0 {
		err = fmt.Errorf("%s: %w", in.Name, ErrNoBroadcast)
		return
	}
	for _, a := range addrs {
		addr, ok := a.(*net.IPNet)
		if !ok || addr.IP.To4() == nil {
			continue
		}
		n = Net{
			IPNet: net.IPNet{
				IP:   addr.IP.To4(),
				Mask: addr.Mask[len(addr.Mask)-net.IPv4len:],
			},
			Interface: in,
		}
		return
	}
	err = fmt.Errorf("%s: %w", in.Name, ErrNotIPv4)
	return
}
