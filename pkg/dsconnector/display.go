// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dsconnector

// DisplayData reports the resolved configuration for pipeline
// introspection tooling (§12 Supplemented Features), mirroring the
// donor's threshold registry that backs its own end-of-run summary.
func (c Config) DisplayData() map[string]any {
	return map[string]any{
		"projectId":      c.ProjectID,
		"databaseId":     c.DatabaseID,
		"namespace":      c.Namespace,
		"endpoint":       c.Endpoint(),
		"hintNumWorkers": c.HintNumWorkers,
		"throttleRampup": !c.DisableRampup,
	}
}

// DisplayData extends Config's with the read-specific knobs.
func (c ReadConfig) DisplayData() map[string]any {
	d := c.Config.DisplayData()
	d["numQuerySplits"] = c.NumQuerySplits
	if c.GQLQuery != "" {
		d["gqlQuery"] = c.GQLQuery
	}
	if c.Query != nil {
		d["queryKind"] = c.Query.Kind
	}
	return d
}
