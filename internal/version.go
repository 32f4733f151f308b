package internal

// Version is the application version, shown by --version and in the
// window title.
const Version = "1.0.0"
