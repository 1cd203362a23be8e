package auth

// SetPasswordComparer replaces the bcrypt comparison for a test and returns a restore func.
func SetPasswordComparer(f func(hashed, password string) bool) func() {
	prev := comparePassword
	comparePassword = f
	return func() { comparePassword = prev }
}
