package centipede

// Version is the module version reported by the centipede command.
const Version = "0.1.0"
