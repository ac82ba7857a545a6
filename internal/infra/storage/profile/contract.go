package profile

import "github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
