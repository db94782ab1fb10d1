package cache

func KeyCapabilities(accountName string) string {
	return Key("capabilities", accountName)
}

func KeyServerStatus(serverURL string) string {
	return Key("status", serverURL)
}

func KeyShares(accountName, path string) string {
	return Key("shares", accountName, path)
}
