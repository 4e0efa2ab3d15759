package middleware

import (
	"fmt"
	"net"
	"strings"

	beecontext "github.com/beego/beego/v2/server/web/context"
)

// TrustedProxies 可信反向代理网段，只有来自这些地址的转发头才会被采用
type TrustedProxies []*net.IPNet

// ParseTrustedProxies 解析 IP 或 CIDR 列表
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	proxies := make(TrustedProxies, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		proxies = append(proxies, network)
	}
	return proxies, nil
}

func (tp TrustedProxies) trusts(addr string) bool {
	ip := net.ParseIP(strings.TrimSpace(addr))
	if ip == nil {
		return false
	}
	for _, network := range tp {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP 连接来自可信代理时，从右向左取 X-Forwarded-For 中第一个不可信地址；
// 否则直接使用连接地址
func (tp TrustedProxies) ClientIP(ctx *beecontext.Context) string {
	remote := ClientIP(ctx)
	if !tp.trusts(remote) {
		return remote
	}

	if xff := ctx.Input.Header("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !tp.trusts(hop) {
				return hop
			}
		}
		if first := strings.TrimSpace(hops[0]); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(ctx.Input.Header("X-Real-IP")); xri != "" {
		return xri
	}
	return remote
}

// ClientIP 返回 TCP 连接的对端地址，不读取任何转发头
func ClientIP(ctx *beecontext.Context) string {
	if host, _, err := net.SplitHostPort(ctx.Request.RemoteAddr); err == nil {
		return host
	}
	return ctx.Request.RemoteAddr
}
