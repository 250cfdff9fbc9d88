package notemill

// Version is the released version of the notemill module.
var Version = "0.1.0"
