// Command inertia inspects inertia servers and their configuration.
//
//	inertia inspect http://localhost:8080/users --only users
//	inertia config inertia.yaml
//	inertia asset-version public/build/manifest.json
package main

func main() {
	Execute()
}
