package centro

const AppVersion = "1.0.0"
