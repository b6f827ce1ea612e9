package state

// Selectors accept a nil RootState or nil sub-states and fall back to defaults.

func wallet(s *RootState) *WalletState {
	if s == nil {
		return nil
	}
	return s.Wallet
}

func transfer(s *RootState) *TransferState {
	if s == nil {
		return nil
	}
	return s.Transfer
}

// Address returns the connected account or "".
func Address(s *RootState) string {
	if w := wallet(s); w != nil {
		return w.Address
	}
	return ""
}

// IsConnected reports whether an account address is known.
func IsConnected(s *RootState) bool { return Address(s) != "" }

func IsConnecting(s *RootState) bool {
	if w := wallet(s); w != nil {
		return w.IsConnecting
	}
	return false
}

// Balance returns the last known token balance in base units, or "".
func Balance(s *RootState) string {
	if w := wallet(s); w != nil {
		return w.Balance
	}
	return ""
}

func WalletError(s *RootState) string {
	if w := wallet(s); w != nil {
		return w.Error
	}
	return ""
}

func IsTransfered(s *RootState) bool {
	if t := transfer(s); t != nil {
		return t.IsTransfered
	}
	return false
}

func IsTransfering(s *RootState) bool {
	if t := transfer(s); t != nil {
		return t.IsTransfering
	}
	return false
}

func IsOpen(s *RootState) bool {
	if t := transfer(s); t != nil {
		return t.IsOpen
	}
	return false
}

func IsTransferSuccess(s *RootState) bool {
	if t := transfer(s); t != nil {
		return t.IsTransferSuccess
	}
	return false
}

func TransferError(s *RootState) string {
	if t := transfer(s); t != nil {
		return t.Error
	}
	return ""
}
